package repository

import (
	"context"

	"gorm.io/gorm"

	"epool/internal/domain"
)

type PoolFolderRepository struct {
	db *gorm.DB
}

func NewPoolFolderRepository(db *gorm.DB) *PoolFolderRepository {
	return &PoolFolderRepository{db: db}
}

func (r *PoolFolderRepository) DB() *gorm.DB { return r.db }

// CreateWithOwner inserts the folder and its owner membership row in one
// transaction. A folder never exists without exactly one owner member.
func (r *PoolFolderRepository) CreateWithOwner(ctx context.Context, folder *domain.PoolFolder, owner *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		folder.OwnerID = owner.ID
		if err := tx.Create(folder).Error; err != nil {
			return err
		}
		member := &domain.PoolMember{
			PoolFolderID: folder.ID,
			UserID:       owner.ID,
			IsOwner:      true,
			InvitedAt:    tx.NowFunc(),
		}
		return tx.Create(member).Error
	})
}

func (r *PoolFolderRepository) GetByID(ctx context.Context, id string) (*domain.PoolFolder, error) {
	var f domain.PoolFolder
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		Where("id = ?", id).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PoolFolderRepository) GetByLinkCode(ctx context.Context, code string) (*domain.PoolFolder, error) {
	var f domain.PoolFolder
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		Where("link_code = ?", code).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PoolFolderRepository) LinkCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.PoolFolder{}).
		Where("link_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *PoolFolderRepository) ListOwnedBy(ctx context.Context, ownerID string) ([]domain.PoolFolder, error) {
	var folders []domain.PoolFolder
	err := r.db.WithContext(ctx).
		Preload("Members").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&folders).Error
	return folders, err
}

func (r *PoolFolderRepository) ListPage(ctx context.Context, ownerID string, offset, limit int) ([]domain.PoolFolder, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.PoolFolder{})
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var folders []domain.PoolFolder
	err := q.Preload("Owner").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&folders).Error
	return folders, total, err
}

func (r *PoolFolderRepository) Update(ctx context.Context, f *domain.PoolFolder) error {
	return r.db.WithContext(ctx).Save(f).Error
}

// Delete removes the folder and, through FK cascades, its members and files.
func (r *PoolFolderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pool_folder_id = ?", id).Delete(&domain.PoolMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pool_folder_id = ?", id).Delete(&domain.PoolFile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.PoolFolder{}).Error
	})
}
