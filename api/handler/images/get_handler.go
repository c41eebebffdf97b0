package images

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/api/common"
)

// GetImage 返回单个图片文档
func (h *Handler) GetImage(c *gin.Context) {
	record, err := h.sync.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, toImageResponse(record))
}
