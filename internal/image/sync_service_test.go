package image

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anoixa/picture-vault/database/models"
	"github.com/anoixa/picture-vault/database/repo/images"
	"github.com/anoixa/picture-vault/internal/apperrors"
	"github.com/anoixa/picture-vault/remotestore"
)

// fakeProvider 可编程的远程存储假实现，记录调用次数
type fakeProvider struct {
	createFunc func(ctx context.Context, data []byte, contentType string) (*remotestore.RemoteImage, error)
	updateFunc func(ctx context.Context, id string, data []byte, contentType string) (*remotestore.RemoteImage, error)
	patchFunc  func(ctx context.Context, id string, data []byte) error
	deleteFunc func(ctx context.Context, id string) error

	createCalls int
	updateCalls int
	patchCalls  int
	deleteCalls int
}

func (f *fakeProvider) CreateImage(ctx context.Context, data []byte, contentType string) (*remotestore.RemoteImage, error) {
	f.createCalls++
	if f.createFunc != nil {
		return f.createFunc(ctx, data, contentType)
	}
	return &remotestore.RemoteImage{
		ID:          "remote-1",
		URL:         "https://remote.example.com/images/remote-1",
		ContentType: contentType,
	}, nil
}

func (f *fakeProvider) UpdateImage(ctx context.Context, id string, data []byte, contentType string) (*remotestore.RemoteImage, error) {
	f.updateCalls++
	if f.updateFunc != nil {
		return f.updateFunc(ctx, id, data, contentType)
	}
	return &remotestore.RemoteImage{ID: id, ContentType: contentType}, nil
}

func (f *fakeProvider) PatchImage(ctx context.Context, id string, data []byte) error {
	f.patchCalls++
	if f.patchFunc != nil {
		return f.patchFunc(ctx, id, data)
	}
	return nil
}

func (f *fakeProvider) DeleteImage(ctx context.Context, id string) error {
	f.deleteCalls++
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return nil
}

func (f *fakeProvider) Health(ctx context.Context) error { return nil }
func (f *fakeProvider) Name() string                     { return "fake" }

// setupTestDB 创建测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Image{})
	require.NoError(t, err)

	return db
}

func setupService(t *testing.T, remote *fakeProvider) (*SyncService, *images.Repository) {
	t.Helper()
	repo := images.NewRepository(setupTestDB(t))
	return NewSyncService(repo, remote, nil, time.Minute), repo
}

// pngData 最小的可识别 PNG 头
func pngData() []byte {
	return []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
}

const ownerID = "owner-1"

func createTestImage(t *testing.T, svc *SyncService) *models.Image {
	t.Helper()
	record, err := svc.Create(context.Background(), CreateInput{
		OwnerID:     ownerID,
		Data:        pngData(),
		ContentType: "image/png",
		Description: "original description",
		Location:    "original location",
	})
	require.NoError(t, err)
	return record
}

// TestCreate_Success 远程成功后本地记录持久化
func TestCreate_Success(t *testing.T) {
	remote := &fakeProvider{}
	svc, repo := setupService(t, remote)

	record := createTestImage(t, svc)

	assert.Equal(t, 1, remote.createCalls)
	assert.Equal(t, "remote-1", record.RemoteID)
	assert.Equal(t, "https://remote.example.com/images/remote-1", record.URL)
	assert.Equal(t, ownerID, record.OwnerID)
	assert.NotEmpty(t, record.Identifier)

	stored, err := repo.GetImageByIdentifier(record.Identifier)
	require.NoError(t, err)
	assert.Equal(t, record.RemoteID, stored.RemoteID)
	assert.Equal(t, pngData(), stored.Data)
}

// TestCreate_RemoteFailure 远程失败时不留本地记录，错误原样上抛
func TestCreate_RemoteFailure(t *testing.T) {
	upstream := &apperrors.UpstreamError{StatusCode: 503, Body: []byte(`{"message":"backend down"}`)}
	remote := &fakeProvider{
		createFunc: func(ctx context.Context, data []byte, contentType string) (*remotestore.RemoteImage, error) {
			return nil, upstream
		},
	}
	svc, repo := setupService(t, remote)

	_, err := svc.Create(context.Background(), CreateInput{
		OwnerID:     ownerID,
		Data:        pngData(),
		ContentType: "image/png",
	})
	require.Error(t, err)
	assert.Equal(t, upstream, err)

	records, err := repo.ListImages()
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestCreate_LocalFailure 远程成功而本地失败时上抛 ConsistencyError
func TestCreate_LocalFailure(t *testing.T) {
	remote := &fakeProvider{}
	db := setupTestDB(t)
	repo := images.NewRepository(db)
	svc := NewSyncService(repo, remote, nil, time.Minute)

	// 删掉表，迫使本地持久化失败
	require.NoError(t, db.Migrator().DropTable(&models.Image{}))

	_, err := svc.Create(context.Background(), CreateInput{
		OwnerID:     ownerID,
		Data:        pngData(),
		ContentType: "image/png",
	})
	require.Error(t, err)

	var consistencyErr *apperrors.ConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
	assert.Equal(t, "create", consistencyErr.Op)
	assert.Equal(t, "remote-1", consistencyErr.RemoteID)
	assert.Equal(t, 1, remote.createCalls)
}

// TestCreate_Validation 空数据和非法内容类型直接拒绝，不触发远程调用
func TestCreate_Validation(t *testing.T) {
	remote := &fakeProvider{}
	svc, _ := setupService(t, remote)

	_, err := svc.Create(context.Background(), CreateInput{OwnerID: ownerID, ContentType: "image/png"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(context.Background(), CreateInput{OwnerID: ownerID, Data: pngData(), ContentType: "text/html"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(context.Background(), CreateInput{OwnerID: ownerID, Data: []byte("plain text payload"), ContentType: "image/png"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Equal(t, 0, remote.createCalls)
}

// TestGet_NotFound 不存在的标识符返回 ErrNotFound
func TestGet_NotFound(t *testing.T) {
	svc, _ := setupService(t, &fakeProvider{})

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// TestList 列表按创建时间返回全部记录
func TestList(t *testing.T) {
	svc, _ := setupService(t, &fakeProvider{})
	createTestImage(t, svc)
	createTestImage(t, svc)

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

// TestUpdate_Success 整体更新覆盖全部文档字段
func TestUpdate_Success(t *testing.T) {
	remote := &fakeProvider{}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	newData := append(pngData(), 0xFF)
	updated, err := svc.Update(context.Background(), record.Identifier, ownerID, UpdateInput{
		Data:        newData,
		ContentType: "image/png",
		Description: "new description",
		Location:    "new location",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, remote.updateCalls)
	assert.Equal(t, "new description", updated.Description)
	assert.Equal(t, "new location", updated.Location)

	stored, err := repo.GetImageByIdentifier(record.Identifier)
	require.NoError(t, err)
	assert.Equal(t, newData, stored.Data)
	assert.Equal(t, "new description", stored.Description)
}

// TestUpdate_OmittedFieldsCleared 整体更新时未提供的可选字段被清空
func TestUpdate_OmittedFieldsCleared(t *testing.T) {
	svc, repo := setupService(t, &fakeProvider{})
	record := createTestImage(t, svc)

	_, err := svc.Update(context.Background(), record.Identifier, ownerID, UpdateInput{
		Data:        pngData(),
		ContentType: "image/png",
	})
	require.NoError(t, err)

	stored, err := repo.GetImageByIdentifier(record.Identifier)
	require.NoError(t, err)
	assert.Empty(t, stored.Description)
	assert.Empty(t, stored.Location)
}

// TestUpdate_NotOwner 归属不匹配返回 ErrForbidden，不触发远程调用
func TestUpdate_NotOwner(t *testing.T) {
	remote := &fakeProvider{}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	_, err := svc.Update(context.Background(), record.Identifier, "intruder", UpdateInput{
		Data:        pngData(),
		ContentType: "image/png",
		Description: "hijacked",
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 0, remote.updateCalls)

	stored, err := repo.GetImageByIdentifier(record.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "original description", stored.Description)
}

// TestUpdate_RemoteFailure 远程失败时本地记录保持原样
func TestUpdate_RemoteFailure(t *testing.T) {
	upstream := &apperrors.UpstreamError{StatusCode: 500, Body: []byte("boom")}
	remote := &fakeProvider{
		updateFunc: func(ctx context.Context, id string, data []byte, contentType string) (*remotestore.RemoteImage, error) {
			return nil, upstream
		},
	}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	_, err := svc.Update(context.Background(), record.Identifier, ownerID, UpdateInput{
		Data:        pngData(),
		ContentType: "image/png",
		Description: "should not stick",
	})
	assert.Equal(t, upstream, err)

	stored, err := repo.GetImageByIdentifier(record.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "original description", stored.Description)
}

// TestPatch_MetadataOnly 只改元数据时不触发远程内容调用
func TestPatch_MetadataOnly(t *testing.T) {
	remote := &fakeProvider{}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	description := "patched description"
	err := svc.Patch(context.Background(), record.Identifier, ownerID, PatchInput{
		Description: &description,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, remote.patchCalls)

	stored, err := repo.GetImageByIdentifier(record.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "patched description", stored.Description)
	assert.Equal(t, "original location", stored.Location)
}

// TestPatch_NoChanges 没有任何字段变化时既不调远程也不持久化
func TestPatch_NoChanges(t *testing.T) {
	remote := &fakeProvider{}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	before, err := repo.GetImageByIdentifier(record.Identifier)
	require.NoError(t, err)

	// 和当前值相同的字段不算变化
	sameDescription := "original description"
	err = svc.Patch(context.Background(), record.Identifier, ownerID, PatchInput{
		Description: &sameDescription,
	})
	require.NoError(t, err)

	err = svc.Patch(context.Background(), record.Identifier, ownerID, PatchInput{})
	require.NoError(t, err)

	assert.Equal(t, 0, remote.patchCalls)
	assert.Equal(t, 0, remote.updateCalls)

	after, err := repo.GetImageByIdentifier(record.Identifier)
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

// TestPatch_DataPushesRemoteFirst 带数据的补丁先推远程，远程失败时本地不动
func TestPatch_DataPushesRemoteFirst(t *testing.T) {
	upstream := &apperrors.UpstreamError{StatusCode: 502, Body: []byte("bad gateway")}
	remote := &fakeProvider{
		patchFunc: func(ctx context.Context, id string, data []byte) error {
			return upstream
		},
	}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	description := "patched alongside data"
	err := svc.Patch(context.Background(), record.Identifier, ownerID, PatchInput{
		Data:        append(pngData(), 0xAB),
		Description: &description,
	})
	assert.Equal(t, upstream, err)
	assert.Equal(t, 1, remote.patchCalls)

	stored, err := repo.GetImageByIdentifier(record.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "original description", stored.Description)
	assert.Equal(t, pngData(), stored.Data)
}

// TestPatch_DataSuccess 远程成功后本地内容和元数据一起落库
func TestPatch_DataSuccess(t *testing.T) {
	remote := &fakeProvider{}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	newData := append(pngData(), 0xCD)
	err := svc.Patch(context.Background(), record.Identifier, ownerID, PatchInput{
		Data: newData,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, remote.patchCalls)

	stored, err := repo.GetImageByIdentifier(record.Identifier)
	require.NoError(t, err)
	assert.Equal(t, newData, stored.Data)
}

// TestPatch_NotOwner 归属不匹配返回 ErrForbidden，不触发远程调用
func TestPatch_NotOwner(t *testing.T) {
	remote := &fakeProvider{}
	svc, _ := setupService(t, remote)
	record := createTestImage(t, svc)

	description := "hijacked"
	err := svc.Patch(context.Background(), record.Identifier, "intruder", PatchInput{
		Description: &description,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 0, remote.patchCalls)
}

// TestDelete_Success 先删远程再删本地
func TestDelete_Success(t *testing.T) {
	remote := &fakeProvider{}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	err := svc.Delete(context.Background(), record.Identifier, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.deleteCalls)

	_, err = repo.GetImageByIdentifier(record.Identifier)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// TestDelete_RemoteFailure 远程明确失败时本地记录保留
func TestDelete_RemoteFailure(t *testing.T) {
	upstream := &apperrors.UpstreamError{StatusCode: 500, Body: []byte("boom")}
	remote := &fakeProvider{
		deleteFunc: func(ctx context.Context, id string) error {
			return upstream
		},
	}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	err := svc.Delete(context.Background(), record.Identifier, ownerID)
	assert.Equal(t, upstream, err)

	_, err = repo.GetImageByIdentifier(record.Identifier)
	assert.NoError(t, err)
}

// TestDelete_RemoteAlreadyGone 远程对象已不存在时视为一致，本地照删
func TestDelete_RemoteAlreadyGone(t *testing.T) {
	remote := &fakeProvider{
		deleteFunc: func(ctx context.Context, id string) error {
			return remotestore.ErrRemoteNotFound
		},
	}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	err := svc.Delete(context.Background(), record.Identifier, ownerID)
	require.NoError(t, err)

	_, err = repo.GetImageByIdentifier(record.Identifier)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// TestDelete_NotOwner 归属不匹配返回 ErrForbidden，不触发远程调用
func TestDelete_NotOwner(t *testing.T) {
	remote := &fakeProvider{}
	svc, repo := setupService(t, remote)
	record := createTestImage(t, svc)

	err := svc.Delete(context.Background(), record.Identifier, "intruder")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 0, remote.deleteCalls)

	_, err = repo.GetImageByIdentifier(record.Identifier)
	assert.NoError(t, err)
}
