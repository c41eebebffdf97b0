package remotestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig MinIO 存储配置
type MinioConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// MinioStorage 对象存储实现，对象键即远程标识符
type MinioStorage struct {
	client        *minio.Client
	bucketName    string
	publicBaseURL string
}

// extensionByContentType 根据 MIME 类型给对象键加扩展名
func extensionByContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// NewMinioStorage 创建 MinIO 存储提供者
func NewMinioStorage(cfg MinioConfig) (*MinioStorage, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	// 验证 bucket 可达
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio connection test failed: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("minio bucket %q does not exist", cfg.Bucket)
	}

	publicBaseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioStorage{
		client:        client,
		bucketName:    cfg.Bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (s *MinioStorage) objectURL(key string) string {
	return s.publicBaseURL + "/" + key
}

func (s *MinioStorage) isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}

// CreateImage 上传新对象
func (s *MinioStorage) CreateImage(ctx context.Context, data []byte, contentType string) (*RemoteImage, error) {
	key := uuid.New().String() + extensionByContentType(contentType)

	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	now := time.Now()
	return &RemoteImage{
		ID:          key,
		URL:         s.objectURL(key),
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateImage 覆盖写同一个对象键
func (s *MinioStorage) UpdateImage(ctx context.Context, id string, data []byte, contentType string) (*RemoteImage, error) {
	_, err := s.client.PutObject(ctx, s.bucketName, id, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("failed to overwrite object %s: %w", id, err)
	}

	return &RemoteImage{
		ID:          id,
		URL:         s.objectURL(id),
		ContentType: contentType,
		UpdatedAt:   time.Now(),
	}, nil
}

// PatchImage 只替换内容，沿用对象已有的内容类型
func (s *MinioStorage) PatchImage(ctx context.Context, id string, data []byte) error {
	info, err := s.client.StatObject(ctx, s.bucketName, id, minio.StatObjectOptions{})
	if err != nil {
		if s.isNotFound(err) {
			return ErrRemoteNotFound
		}
		return fmt.Errorf("failed to stat object %s: %w", id, err)
	}

	_, err = s.client.PutObject(ctx, s.bucketName, id, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: info.ContentType})
	if err != nil {
		return fmt.Errorf("failed to overwrite object %s: %w", id, err)
	}
	return nil
}

// DeleteImage 删除对象
func (s *MinioStorage) DeleteImage(ctx context.Context, id string) error {
	// RemoveObject 对不存在的键不报错，先 Stat 区分出 not found
	if _, err := s.client.StatObject(ctx, s.bucketName, id, minio.StatObjectOptions{}); err != nil {
		if s.isNotFound(err) {
			return ErrRemoteNotFound
		}
		return fmt.Errorf("failed to stat object %s: %w", id, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucketName, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", id, err)
	}
	return nil
}

// Health 检查存储健康状态
func (s *MinioStorage) Health(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %q not found", s.bucketName)
	}
	return nil
}

// Name 返回存储名称
func (s *MinioStorage) Name() string {
	return "minio"
}
