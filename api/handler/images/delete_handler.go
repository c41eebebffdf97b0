package images

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/api/common"
	"github.com/anoixa/picture-vault/api/middleware"
)

// DeleteImage 删除图片，只有属主可以删除
// 先删远程再删本地，远程明确失败时本地记录保留。
func (h *Handler) DeleteImage(c *gin.Context) {
	err := h.sync.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
