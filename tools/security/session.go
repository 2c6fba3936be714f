package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	errs "PPSocial/tools/errs"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// 会话令牌：接口层 Bearer 凭证，sub 即调用者用户 ID。
// 签发端在系统之外（登录面不在本服务），这里只负责验签取身份。
type SessionTokenOptions struct {
	Secret []byte
	TTL    time.Duration
}

const DefaultSessionTokenTTL = 24 * time.Hour

func DefaultSessionTokenOptions(secret []byte) SessionTokenOptions {
	return SessionTokenOptions{Secret: secret, TTL: DefaultSessionTokenTTL}
}

// IssueSessionToken 签发会话令牌（测试与运维脚本用）
func IssueSessionToken(opts SessionTokenOptions, userID string) (string, error) {
	if len(opts.Secret) == 0 {
		return "", errs.New("session token secret is empty")
	}
	if strings.TrimSpace(userID) == "" {
		return "", errs.ErrArgs.WrapMsg("issue session token", "userID", userID)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTokenTTL
	}
	now := time.Now()
	claims := jwtlib.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := tok.SignedString(opts.Secret)
	if err != nil {
		return "", errs.WrapMsg(err, "sign session token")
	}
	return signed, nil
}

// VerifySessionToken 验签并取回用户 ID
func VerifySessionToken(opts SessionTokenOptions, token string) (string, error) {
	parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg: %v", t.Header["alg"])
		}
		return opts.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", errs.ErrTokenExpired.Wrap()
		}
		return "", errs.ErrTokenInvalid.WrapMsg(err.Error())
	}
	if !parsed.Valid {
		return "", errs.ErrTokenInvalid.Wrap()
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return "", errs.ErrTokenInvalid.WrapMsg("claims type mismatch")
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return "", errs.ErrTokenInvalid.WrapMsg("claims missing subject")
	}
	return userID, nil
}
