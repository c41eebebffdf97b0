package images

import (
	"time"

	"github.com/anoixa/picture-vault/database/models"
	imageSvc "github.com/anoixa/picture-vault/internal/image"
)

// Handler 图片相关请求处理器
type Handler struct {
	sync *imageSvc.SyncService
}

// NewHandler 创建新的图片处理器
func NewHandler(sync *imageSvc.SyncService) *Handler {
	return &Handler{sync: sync}
}

// imageResponse 图片文档的公开字段
type imageResponse struct {
	ID          string `json:"id"`
	ImageURL    string `json:"imageUrl"`
	ContentType string `json:"contentType"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toImageResponse(image *models.Image) imageResponse {
	return imageResponse{
		ID:          image.Identifier,
		ImageURL:    image.URL,
		ContentType: image.ContentType,
		Description: image.Description,
		Location:    image.Location,
		Width:       image.Width,
		Height:      image.Height,
		CreatedAt:   image.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   image.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
