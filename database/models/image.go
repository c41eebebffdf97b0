package models

import "gorm.io/gorm"

// allowedContentTypes 允许的图片 MIME 类型
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsAllowedContentType 检查 MIME 类型是否允许
func IsAllowedContentType(contentType string) bool {
	return allowedContentTypes[contentType]
}

// Image 本地图片元数据记录，二进制内容保存在远程存储中。
// OwnerID 在创建时写入一次，之后不再变化；URL 始终指向远程存储中
// 真实存在的对象。
type Image struct {
	gorm.Model
	Identifier  string `gorm:"uniqueIndex:idx_image_identifier;size:36;not null"`
	OwnerID     string `gorm:"index:idx_image_owner;size:36;not null"`
	RemoteID    string `gorm:"not null"`
	URL         string `gorm:"not null"`
	ContentType string `gorm:"not null"`
	Description string
	Location    string
	Width       int
	Height      int

	// Data 原始图片内容的本地缓存，远程存储才是权威数据源
	Data []byte
}
