package images

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/api/common"
	"github.com/anoixa/picture-vault/api/middleware"
	imageSvc "github.com/anoixa/picture-vault/internal/image"
)

// createRequestBody 创建请求体，data 按 JSON 约定 base64 编码
type createRequestBody struct {
	Data        []byte `json:"data" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// CreateImage 创建新图片
// 先上传远程存储，成功后才写本地记录；远程失败时其状态码和
// 响应体原样透传给客户端。
func (h *Handler) CreateImage(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	record, err := h.sync.Create(c.Request.Context(), imageSvc.CreateInput{
		OwnerID:     middleware.CurrentUserID(c),
		Data:        body.Data,
		ContentType: body.ContentType,
		Description: body.Description,
		Location:    body.Location,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toImageResponse(record))
}
