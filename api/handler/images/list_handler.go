package images

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/picture-vault/api/common"
)

// listItem 列表接口的公开字段
type listItem struct {
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
	Location    string `json:"location"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	ID          string `json:"id"`
}

// ListImages 返回全部图片的元数据列表
func (h *Handler) ListImages(c *gin.Context) {
	records, err := h.sync.List(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	items := make([]listItem, 0, len(records))
	for _, record := range records {
		items = append(items, listItem{
			ImageURL:    record.URL,
			Description: record.Description,
			Location:    record.Location,
			CreatedAt:   record.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:   record.UpdatedAt.UTC().Format(time.RFC3339),
			ID:          record.Identifier,
		})
	}

	c.JSON(http.StatusOK, items)
}
