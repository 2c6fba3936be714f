package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"PPSocial/logger"
	midsec "PPSocial/middleware/security"
	"PPSocial/tools/errs"
)

// respondError 业务错误按错误码段映射 HTTP 状态；未分类错误一律 500，细节只进日志
func respondError(c *gin.Context, err error) {
	var ce *errs.CodeError
	if errors.As(err, &ce) {
		c.JSON(errs.HTTPStatus(ce.ECode()), gin.H{"error": ce.EMsg()})
		return
	}
	logger.Error("unhandled error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// currentUser 取会话中间件写入的调用者；拿不到直接 401
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := midsec.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return userID, true
}
