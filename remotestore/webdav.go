package remotestore

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/studio-b12/gowebdav"
)

// WebDAVConfig WebDAV 存储配置
type WebDAVConfig struct {
	URL           string `mapstructure:"url"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	RootPath      string `mapstructure:"root_path"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// WebDAVStorage WebDAV 存储实现，相对路径即远程标识符
type WebDAVStorage struct {
	client        *gowebdav.Client
	rootPath      string
	publicBaseURL string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者
func NewWebDAVStorage(cfg WebDAVConfig) (*WebDAVStorage, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webdav URL is required")
	}

	rootPath := strings.Trim(cfg.RootPath, "/")
	if rootPath != "" {
		rootPath = "/" + rootPath
	}

	client := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)
	client.SetTimeout(30 * time.Second)

	// 验证连接
	if err := testWebDAVConnection(client, rootPath); err != nil {
		return nil, fmt.Errorf("webdav connection test failed: %w", err)
	}

	publicBaseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = strings.TrimRight(cfg.URL, "/") + rootPath
	}

	return &WebDAVStorage{
		client:        client,
		rootPath:      rootPath,
		publicBaseURL: publicBaseURL,
	}, nil
}

// testWebDAVConnection 测试 WebDAV 连接
func testWebDAVConnection(client *gowebdav.Client, rootPath string) error {
	done := make(chan error, 1)
	go func() {
		// 读取根目录验证连接
		_, err := client.ReadDir(rootPath)
		done <- err
	}()

	select {
	case <-time.After(10 * time.Second):
		return fmt.Errorf("connection timed out")
	case err := <-done:
		return err
	}
}

// fullPath 生成完整的 WebDAV 路径
func (s *WebDAVStorage) fullPath(id string) string {
	return path.Join(s.rootPath, id)
}

// CreateImage 上传新文件
func (s *WebDAVStorage) CreateImage(ctx context.Context, data []byte, contentType string) (*RemoteImage, error) {
	id := uuid.New().String() + extensionByContentType(contentType)

	if err := s.client.Write(s.fullPath(id), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write webdav file %s: %w", id, err)
	}

	now := time.Now()
	return &RemoteImage{
		ID:          id,
		URL:         s.publicBaseURL + "/" + id,
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateImage 覆盖写同一个路径
func (s *WebDAVStorage) UpdateImage(ctx context.Context, id string, data []byte, contentType string) (*RemoteImage, error) {
	if err := s.client.Write(s.fullPath(id), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to overwrite webdav file %s: %w", id, err)
	}

	return &RemoteImage{
		ID:          id,
		URL:         s.publicBaseURL + "/" + id,
		ContentType: contentType,
		UpdatedAt:   time.Now(),
	}, nil
}

// PatchImage 只替换文件内容
func (s *WebDAVStorage) PatchImage(ctx context.Context, id string, data []byte) error {
	if _, err := s.client.Stat(s.fullPath(id)); err != nil {
		if gowebdav.IsErrNotFound(err) {
			return ErrRemoteNotFound
		}
		return fmt.Errorf("failed to stat webdav file %s: %w", id, err)
	}

	if err := s.client.Write(s.fullPath(id), data, 0644); err != nil {
		return fmt.Errorf("failed to overwrite webdav file %s: %w", id, err)
	}
	return nil
}

// DeleteImage 删除文件
func (s *WebDAVStorage) DeleteImage(ctx context.Context, id string) error {
	err := s.client.Remove(s.fullPath(id))
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return ErrRemoteNotFound
		}
		return fmt.Errorf("failed to remove webdav file %s: %w", id, err)
	}
	return nil
}

// Health 检查存储健康状态
func (s *WebDAVStorage) Health(ctx context.Context) error {
	_, err := s.client.ReadDir(s.rootPath)
	return err
}

// Name 返回存储名称
func (s *WebDAVStorage) Name() string {
	return "webdav"
}
