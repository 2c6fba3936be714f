package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	errs "PPSocial/tools/errs"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// 好友申请令牌：HS256 签名的无状态凭证，绑定 (sender, receiver)。
// 服务端不维护吊销表；申请记录被删除后令牌即无法兑换（按 token 查不到记录）。
type RequestTokenOptions struct {
	Secret []byte        // HMAC 密钥（生产用ENV/KMS）
	TTL    time.Duration // 有效期（默认 7 天）
}

const DefaultRequestTokenTTL = 7 * 24 * time.Hour

func DefaultRequestTokenOptions(secret []byte) RequestTokenOptions {
	return RequestTokenOptions{Secret: secret, TTL: DefaultRequestTokenTTL}
}

// IssueRequestToken 为 (senderID, receiverID) 签发申请令牌
func IssueRequestToken(opts RequestTokenOptions, senderID, receiverID string) (string, error) {
	if len(opts.Secret) == 0 {
		return "", errs.New("request token secret is empty")
	}
	if strings.TrimSpace(senderID) == "" || strings.TrimSpace(receiverID) == "" {
		return "", errs.ErrArgs.WrapMsg("issue request token", "senderID", senderID, "receiverID", receiverID)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultRequestTokenTTL
	}
	now := time.Now()
	claims := jwtlib.MapClaims{
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"iat":         now.Unix(),
		"nbf":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := tok.SignedString(opts.Secret)
	if err != nil {
		return "", errs.WrapMsg(err, "sign request token")
	}
	return signed, nil
}

// VerifyRequestToken 验签并取回 (senderID, receiverID)。
// 过期返回 errs.ErrTokenExpired，其余验签失败返回 errs.ErrTokenInvalid。
func VerifyRequestToken(opts RequestTokenOptions, token string) (senderID, receiverID string, err error) {
	parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (interface{}, error) {
		// 仅允许 HMAC 家族
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg: %v", t.Header["alg"])
		}
		return opts.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", "", errs.ErrTokenExpired.Wrap()
		}
		return "", "", errs.ErrTokenInvalid.WrapMsg(err.Error())
	}
	if !parsed.Valid {
		return "", "", errs.ErrTokenInvalid.Wrap()
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return "", "", errs.ErrTokenInvalid.WrapMsg("claims type mismatch")
	}
	senderID, _ = claims["sender_id"].(string)
	receiverID, _ = claims["receiver_id"].(string)
	if senderID == "" || receiverID == "" {
		return "", "", errs.ErrTokenInvalid.WrapMsg("claims missing parties")
	}
	return senderID, receiverID, nil
}
