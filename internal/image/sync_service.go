package image

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/anoixa/picture-vault/cache"
	"github.com/anoixa/picture-vault/database/models"
	"github.com/anoixa/picture-vault/database/repo/images"
	"github.com/anoixa/picture-vault/internal/apperrors"
	"github.com/anoixa/picture-vault/remotestore"
	"github.com/anoixa/picture-vault/utils/validator"
)

// cacheKeyPrefix 图片文档缓存键前缀
const cacheKeyPrefix = "image:"

// SyncService 维护本地图片记录与远程存储的一致性。
// 所有修改操作都遵循先远程后本地的顺序：绝不持久化一条
// 指向远程不存在对象的记录。
type SyncService struct {
	repo     *images.Repository
	remote   remotestore.Provider
	cache    cache.Provider
	cacheTTL time.Duration
	locks    recordLocks
}

// NewSyncService 创建新的同步服务，cacheProvider 可以为 nil
func NewSyncService(repo *images.Repository, remote remotestore.Provider, cacheProvider cache.Provider, cacheTTL time.Duration) *SyncService {
	return &SyncService{
		repo:     repo,
		remote:   remote,
		cache:    cacheProvider,
		cacheTTL: cacheTTL,
	}
}

// CreateInput 创建请求字段
type CreateInput struct {
	OwnerID     string
	Data        []byte
	ContentType string
	Description string
	Location    string
}

// UpdateInput 整体更新请求字段
type UpdateInput struct {
	Data        []byte
	ContentType string
	Description string
	Location    string
}

// PatchInput 部分更新请求字段，nil 指针表示该字段未出现在请求中
type PatchInput struct {
	Data        []byte
	ContentType *string
	Description *string
	Location    *string
}

// Create 两阶段创建：先上传远程，成功后才写本地记录。
// 远程失败原样上抛（不留半条记录）；远程成功而本地失败时远程对象
// 成为孤儿，上抛 ConsistencyError 供人工对账，不尝试自动回滚。
func (s *SyncService) Create(ctx context.Context, input CreateInput) (*models.Image, error) {
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: image data is required", apperrors.ErrValidation)
	}
	if !models.IsAllowedContentType(input.ContentType) {
		return nil, fmt.Errorf("%w: unsupported content type %q", apperrors.ErrValidation, input.ContentType)
	}
	if !validator.IsImageData(input.Data) {
		return nil, fmt.Errorf("%w: payload is not an allowed image format", apperrors.ErrValidation)
	}

	remote, err := s.remote.CreateImage(ctx, input.Data, input.ContentType)
	if err != nil {
		return nil, err
	}

	contentType := remote.ContentType
	if contentType == "" {
		contentType = input.ContentType
	}
	width, height := validator.ProbeDimensions(input.Data)

	record := &models.Image{
		Identifier:  uuid.New().String(),
		OwnerID:     input.OwnerID,
		RemoteID:    remote.ID,
		URL:         remote.URL,
		ContentType: contentType,
		Description: input.Description,
		Location:    input.Location,
		Width:       width,
		Height:      height,
		Data:        input.Data,
	}

	if err := s.repo.SaveImage(record); err != nil {
		log.Printf("Orphaned remote object after local create failure: id=%s url=%s", remote.ID, remote.URL)
		return nil, &apperrors.ConsistencyError{
			Op:        "create",
			RemoteID:  remote.ID,
			RemoteURL: remote.URL,
			Err:       err,
		}
	}

	s.cacheSet(ctx, record)
	return record, nil
}

// Get 通过标识符获取图片记录
func (s *SyncService) Get(ctx context.Context, identifier string) (*models.Image, error) {
	if s.cache != nil {
		var cached models.Image
		if err := s.cache.Get(ctx, cacheKeyPrefix+identifier, &cached); err == nil {
			return &cached, nil
		}
	}

	record, err := s.repo.GetImageByIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, record)
	return record, nil
}

// List 获取全部图片记录
func (s *SyncService) List(ctx context.Context) ([]*models.Image, error) {
	return s.repo.ListImages()
}

// Update 整体更新。远程对象标识符取自已有记录而非客户端输入，
// 客户端无法把更新重定向到不属于它的对象。
// 归属不匹配时不触发任何远程调用。
func (s *SyncService) Update(ctx context.Context, identifier, ownerID string, input UpdateInput) (*models.Image, error) {
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: image data is required", apperrors.ErrValidation)
	}
	if !models.IsAllowedContentType(input.ContentType) {
		return nil, fmt.Errorf("%w: unsupported content type %q", apperrors.ErrValidation, input.ContentType)
	}

	unlock := s.locks.lock(identifier)
	defer unlock()

	record, err := s.repo.GetImageByIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if record.OwnerID != ownerID {
		return nil, apperrors.ErrForbidden
	}

	remote, err := s.remote.UpdateImage(ctx, record.RemoteID, input.Data, input.ContentType)
	if err != nil {
		// 远程失败，本地保持原样
		return nil, err
	}

	record.ContentType = input.ContentType
	record.Description = input.Description
	record.Location = input.Location
	record.Data = input.Data
	record.Width, record.Height = validator.ProbeDimensions(input.Data)
	if remote.URL != "" {
		record.URL = remote.URL
	}

	if err := s.repo.UpdateImage(record); err != nil {
		return nil, &apperrors.ConsistencyError{
			Op:        "update",
			RemoteID:  record.RemoteID,
			RemoteURL: record.URL,
			Err:       err,
		}
	}

	s.cacheDelete(ctx, identifier)
	return record, nil
}

// Patch 部分更新。只考虑请求中出现的字段；没有任何字段变化时
// 既不调用远程也不持久化。data 出现时它是权威的新内容，先推远程
// 再更新本地缓存字段；本地记录在所有远程调用成功后只写一次。
func (s *SyncService) Patch(ctx context.Context, identifier, ownerID string, input PatchInput) error {
	if input.ContentType != nil && !models.IsAllowedContentType(*input.ContentType) {
		return fmt.Errorf("%w: unsupported content type %q", apperrors.ErrValidation, *input.ContentType)
	}

	unlock := s.locks.lock(identifier)
	defer unlock()

	record, err := s.repo.GetImageByIdentifier(identifier)
	if err != nil {
		return err
	}
	if record.OwnerID != ownerID {
		return apperrors.ErrForbidden
	}

	changed := false

	if input.Description != nil && *input.Description != record.Description {
		record.Description = *input.Description
		changed = true
	}
	if input.Location != nil && *input.Location != record.Location {
		record.Location = *input.Location
		changed = true
	}
	if input.ContentType != nil && *input.ContentType != record.ContentType {
		record.ContentType = *input.ContentType
		changed = true
	}

	if len(input.Data) > 0 {
		// 远程存储是权威数据源，内容先推远程，成功后才更新本地缓存
		if err := s.remote.PatchImage(ctx, record.RemoteID, input.Data); err != nil {
			return err
		}
		record.Data = input.Data
		record.Width, record.Height = validator.ProbeDimensions(input.Data)
		changed = true
	}

	if !changed {
		return nil
	}

	if err := s.repo.UpdateImage(record); err != nil {
		return &apperrors.ConsistencyError{
			Op:        "patch",
			RemoteID:  record.RemoteID,
			RemoteURL: record.URL,
			Err:       err,
		}
	}

	s.cacheDelete(ctx, identifier)
	return nil
}

// Delete 先删远程再删本地。远程明确失败时本地记录保留；
// 远程报告对象已不存在视为两边已一致，继续删本地。
func (s *SyncService) Delete(ctx context.Context, identifier, ownerID string) error {
	unlock := s.locks.lock(identifier)
	defer unlock()

	record, err := s.repo.GetImageByIdentifier(identifier)
	if err != nil {
		return err
	}
	if record.OwnerID != ownerID {
		return apperrors.ErrForbidden
	}

	if err := s.remote.DeleteImage(ctx, record.RemoteID); err != nil {
		if !errors.Is(err, remotestore.ErrRemoteNotFound) {
			return err
		}
		log.Printf("Remote object already gone, deleting local record: id=%s", record.RemoteID)
	}

	if err := s.repo.DeleteImageByIdentifier(identifier); err != nil {
		return &apperrors.ConsistencyError{
			Op:        "delete",
			RemoteID:  record.RemoteID,
			RemoteURL: record.URL,
			Err:       err,
		}
	}

	s.cacheDelete(ctx, identifier)
	return nil
}

func (s *SyncService) cacheSet(ctx context.Context, record *models.Image) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+record.Identifier, record, s.cacheTTL); err != nil {
		log.Printf("Failed to cache image %s: %v", record.Identifier, err)
	}
}

func (s *SyncService) cacheDelete(ctx context.Context, identifier string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyPrefix+identifier); err != nil {
		log.Printf("Failed to invalidate image cache %s: %v", identifier, err)
	}
}
