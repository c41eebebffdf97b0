package images

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/api/common"
	"github.com/anoixa/picture-vault/api/middleware"
	imageSvc "github.com/anoixa/picture-vault/internal/image"
)

// patchRequestBody 部分更新请求体，nil 指针表示字段未出现
type patchRequestBody struct {
	Data        []byte  `json:"data"`
	ContentType *string `json:"contentType"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

// PatchImage 部分更新图片，只有属主可以修改
// 没有任何字段变化时不触发远程调用也不持久化。
func (h *Handler) PatchImage(c *gin.Context) {
	var body patchRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	err := h.sync.Patch(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), imageSvc.PatchInput{
		Data:        body.Data,
		ContentType: body.ContentType,
		Description: body.Description,
		Location:    body.Location,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
