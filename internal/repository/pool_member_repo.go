package repository

import (
	"context"

	"gorm.io/gorm"

	"epool/internal/domain"
)

type PoolMemberRepository struct {
	db *gorm.DB
}

func NewPoolMemberRepository(db *gorm.DB) *PoolMemberRepository {
	return &PoolMemberRepository{db: db}
}

func (r *PoolMemberRepository) Create(ctx context.Context, m *domain.PoolMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PoolMemberRepository) GetByID(ctx context.Context, id string) (*domain.PoolMember, error) {
	var m domain.PoolMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("PoolFolder").
		Preload("PoolFolder.Owner").
		Preload("PoolFolder.Members").
		Where("id = ?", id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PoolMemberRepository) FindByFolderAndUser(ctx context.Context, folderID, userID string) (*domain.PoolMember, error) {
	var m domain.PoolMember
	err := r.db.WithContext(ctx).
		Where("pool_folder_id = ? AND user_id = ?", folderID, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByFolder orders ascending by creation time, oldest membership first.
func (r *PoolMemberRepository) ListByFolder(ctx context.Context, folderID string) ([]domain.PoolMember, error) {
	var members []domain.PoolMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("pool_folder_id = ?", folderID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *PoolMemberRepository) ListByUser(ctx context.Context, userID string) ([]domain.PoolMember, error) {
	var members []domain.PoolMember
	err := r.db.WithContext(ctx).
		Preload("PoolFolder").
		Preload("PoolFolder.Owner").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&members).Error
	return members, err
}

func (r *PoolMemberRepository) ListPage(ctx context.Context, offset, limit int) ([]domain.PoolMember, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.PoolMember{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []domain.PoolMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("PoolFolder").
		Preload("PoolFolder.Owner").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error
	return members, total, err
}

func (r *PoolMemberRepository) Update(ctx context.Context, m *domain.PoolMember) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *PoolMemberRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.PoolMember{}).Error
}
