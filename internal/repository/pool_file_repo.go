package repository

import (
	"context"

	"gorm.io/gorm"

	"epool/internal/domain"
)

type PoolFileRepository struct {
	db *gorm.DB
}

func NewPoolFileRepository(db *gorm.DB) *PoolFileRepository {
	return &PoolFileRepository{db: db}
}

func (r *PoolFileRepository) Create(ctx context.Context, f *domain.PoolFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *PoolFileRepository) GetByID(ctx context.Context, id string) (*domain.PoolFile, error) {
	var f domain.PoolFile
	if err := r.db.WithContext(ctx).
		Preload("PoolFolder").
		Preload("PoolFolder.Owner").
		Preload("PoolFolder.Members").
		Where("id = ?", id).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PoolFileRepository) ListPage(ctx context.Context, offset, limit int) ([]domain.PoolFile, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.PoolFile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var files []domain.PoolFile
	err := r.db.WithContext(ctx).
		Preload("PoolFolder").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&files).Error
	return files, total, err
}

// ListPageByOwner pages over files in folders owned by ownerID.
func (r *PoolFileRepository) ListPageByOwner(ctx context.Context, ownerID string, offset, limit int) ([]domain.PoolFile, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&domain.PoolFile{}).
		Joins("JOIN pool_folders ON pool_folders.id = pool_files.pool_folder_id").
		Where("pool_folders.owner_id = ?", ownerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var files []domain.PoolFile
	err := base.
		Preload("PoolFolder").
		Order("pool_files.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&files).Error
	return files, total, err
}

func (r *PoolFileRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.PoolFile{}).Error
}
