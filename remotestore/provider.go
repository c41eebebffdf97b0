package remotestore

import (
	"context"
	"errors"
	"time"
)

// ErrRemoteNotFound 远程对象不存在
var ErrRemoteNotFound = errors.New("remote object not found")

// RemoteImage 远程存储中一个图片对象的描述
type RemoteImage struct {
	ID          string
	URL         string
	ContentType string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Provider 远程图片存储接口 - 依赖倒置的核心抽象
// 远程存储是二进制内容的权威数据源，本地只保存元数据。
type Provider interface {
	// CreateImage 上传新图片，返回远程对象描述
	CreateImage(ctx context.Context, data []byte, contentType string) (*RemoteImage, error)

	// UpdateImage 整体替换远程对象的内容
	UpdateImage(ctx context.Context, id string, data []byte, contentType string) (*RemoteImage, error)

	// PatchImage 只替换远程对象的二进制内容，保持内容类型不变
	PatchImage(ctx context.Context, id string, data []byte) error

	// DeleteImage 删除远程对象，对象不存在时返回 ErrRemoteNotFound
	DeleteImage(ctx context.Context, id string) error

	// Health 检查远程存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}
