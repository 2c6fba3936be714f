package security

import (
	"context"

	"PPSocial/tools/security"
)

// JWTSessionValidator 默认实现：HS256 会话令牌验签
type JWTSessionValidator struct {
	Opts security.SessionTokenOptions
}

func (v JWTSessionValidator) Validate(_ context.Context, token string) (string, error) {
	return security.VerifySessionToken(v.Opts, token)
}
