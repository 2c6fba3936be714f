package security

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"PPSocial/tools/errs"
)

// —— context key ——
// 后续 handler 统一用这俩 key 读取
const (
	PPCtxAuthKey   = "authorization" // string，原始令牌
	PPCtxUserIDKey = "currentUserId" // string，验签后的用户 ID
)

// SessionValidator 把 Bearer 令牌换成用户 ID；签发面在系统之外
type SessionValidator interface {
	Validate(ctx context.Context, token string) (userID string, err error)
}

type Options struct {
	// 读取哪个请求头
	HeaderToken               string // 默认 "authorization"
	EnableAuthorizationBearer bool   // 默认 true

	Validator SessionValidator
}

var defaultValidator SessionValidator

// SetValidator 启动时注入全局验证器
func SetValidator(v SessionValidator) { defaultValidator = v }

func DefaultOptions() *Options {
	return &Options{
		HeaderToken:               PPCtxAuthKey,
		EnableAuthorizationBearer: true,
		Validator:                 defaultValidator,
	}
}

func Middleware(opts *Options) gin.HandlerFunc {
	if opts == nil {
		opts = DefaultOptions()
	}
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))

		// 兼容 Authorization: Bearer xxx
		if token == "" && opts.EnableAuthorizationBearer {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}

		if token == "" || opts.Validator == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errs.ErrTokenInvalid.EMsg()})
			return
		}

		userID, err := opts.Validator.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errs.ErrTokenInvalid.EMsg()})
			return
		}

		c.Set(PPCtxAuthKey, token)
		c.Set(PPCtxUserIDKey, userID)
		c.Next()
	}
}

// CurrentUserID 从 gin context 取当前用户
func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(PPCtxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
