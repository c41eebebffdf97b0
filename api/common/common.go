package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/internal/apperrors"
)

// RespondError sends an error response with message.
func RespondError(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"message": message})
}

// RespondErrorAbort sends an error response and aborts the chain.
func RespondErrorAbort(c *gin.Context, httpStatus int, message string) {
	RespondError(c, httpStatus, message)
	c.Abort()
}

// RespondAppError 请求边界的错误翻译
// 内部组件只返回类型化错误，这里统一映射为 HTTP 状态码，
// 认证失败不区分原因。
func RespondAppError(c *gin.Context, err error) {
	var upstream *apperrors.UpstreamError
	var consistency *apperrors.ConsistencyError

	switch {
	case errors.As(err, &upstream):
		// 上游失败原样透传状态码和响应体，状态码不合理时降级为 502
		if upstream.StatusCode >= http.StatusBadRequest && len(upstream.Body) > 0 {
			c.Data(upstream.StatusCode, "application/json", upstream.Body)
			return
		}
		RespondError(c, http.StatusBadGateway, "upstream store failure")

	case errors.As(err, &consistency):
		// 本地与远程出现漂移，记录足够的上下文供人工对账
		log.Printf("Consistency error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal inconsistency, manual reconciliation required")

	case errors.Is(err, apperrors.ErrInvalidToken), errors.Is(err, apperrors.ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Unauthorized")

	case errors.Is(err, apperrors.ErrForbidden):
		RespondError(c, http.StatusForbidden, "Forbidden")

	case errors.Is(err, apperrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "Not Found")

	case errors.Is(err, apperrors.ErrConflict):
		RespondError(c, http.StatusConflict, "Conflict")

	case errors.Is(err, apperrors.ErrValidation):
		RespondError(c, http.StatusBadRequest, err.Error())

	default:
		log.Printf("Unhandled internal error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal Server Error")
	}
}
