package images

import (
	"errors"

	"gorm.io/gorm"

	"github.com/anoixa/picture-vault/database/models"
	"github.com/anoixa/picture-vault/internal/apperrors"
)

// Repository 图片仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的图片仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB 返回底层数据库连接
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// SaveImage 保存新图片记录
func (r *Repository) SaveImage(image *models.Image) error {
	return r.db.Create(image).Error
}

// UpdateImage 整体写回图片记录
func (r *Repository) UpdateImage(image *models.Image) error {
	return r.db.Save(image).Error
}

// GetImageByIdentifier 通过标识符获取图片
func (r *Repository) GetImageByIdentifier(identifier string) (*models.Image, error) {
	var image models.Image
	err := r.db.Where("identifier = ?", identifier).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// ListImages 获取全部图片，按创建时间倒序
func (r *Repository) ListImages() ([]*models.Image, error) {
	var images []*models.Image
	err := r.db.Order("created_at desc").Find(&images).Error
	return images, err
}

// DeleteImageByIdentifier 通过标识符删除图片
func (r *Repository) DeleteImageByIdentifier(identifier string) error {
	if identifier == "" {
		return apperrors.ErrNotFound
	}

	result := r.db.Where("identifier = ?", identifier).Delete(&models.Image{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
