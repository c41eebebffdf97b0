package images

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/api/common"
	"github.com/anoixa/picture-vault/api/middleware"
	imageSvc "github.com/anoixa/picture-vault/internal/image"
)

// updateRequestBody 整体更新请求体
type updateRequestBody struct {
	Data        []byte `json:"data" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// UpdateImage 整体更新图片，只有属主可以修改
func (h *Handler) UpdateImage(c *gin.Context) {
	var body updateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	record, err := h.sync.Update(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), imageSvc.UpdateInput{
		Data:        body.Data,
		ContentType: body.ContentType,
		Description: body.Description,
		Location:    body.Location,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, toImageResponse(record))
}
