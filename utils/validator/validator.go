package validator

import (
	"bytes"
	"image"
	"net/http"

	// 注册 stdlib 之外的解码器，让 DecodeConfig 认识 webp/bmp
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// allowedImageMimeTypes Allowed image types
var allowedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsImageData 检测字节内容是否为允许的图片类型
func IsImageData(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	probe := data
	if len(probe) > 512 {
		probe = probe[:512]
	}
	mimeType := http.DetectContentType(probe)

	return allowedImageMimeTypes[mimeType]
}

// ProbeDimensions 尝试解析图片宽高，解析失败时返回 0,0（不视为错误）
func ProbeDimensions(data []byte) (width, height int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
