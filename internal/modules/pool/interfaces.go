package pool

import (
	"context"
	"io"

	"epool/internal/domain"
	"epool/internal/storage"
)

// Repository and storage contracts the pool services depend on. The concrete
// implementations live in internal/repository and internal/storage; tests
// substitute testify mocks.

type FolderRepositoryInterface interface {
	CreateWithOwner(ctx context.Context, folder *domain.PoolFolder, owner *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.PoolFolder, error)
	GetByLinkCode(ctx context.Context, code string) (*domain.PoolFolder, error)
	LinkCodeExists(ctx context.Context, code string) (bool, error)
	ListOwnedBy(ctx context.Context, ownerID string) ([]domain.PoolFolder, error)
	ListPage(ctx context.Context, ownerID string, offset, limit int) ([]domain.PoolFolder, int64, error)
	Update(ctx context.Context, f *domain.PoolFolder) error
	Delete(ctx context.Context, id string) error
}

type MemberRepositoryInterface interface {
	Create(ctx context.Context, m *domain.PoolMember) error
	GetByID(ctx context.Context, id string) (*domain.PoolMember, error)
	FindByFolderAndUser(ctx context.Context, folderID, userID string) (*domain.PoolMember, error)
	ListByFolder(ctx context.Context, folderID string) ([]domain.PoolMember, error)
	ListByUser(ctx context.Context, userID string) ([]domain.PoolMember, error)
	ListPage(ctx context.Context, offset, limit int) ([]domain.PoolMember, int64, error)
	Update(ctx context.Context, m *domain.PoolMember) error
	Delete(ctx context.Context, id string) error
}

type FileRepositoryInterface interface {
	Create(ctx context.Context, f *domain.PoolFile) error
	GetByID(ctx context.Context, id string) (*domain.PoolFile, error)
	ListPage(ctx context.Context, offset, limit int) ([]domain.PoolFile, int64, error)
	ListPageByOwner(ctx context.Context, ownerID string, offset, limit int) ([]domain.PoolFile, int64, error)
	Delete(ctx context.Context, id string) error
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ObjectStorage interface {
	Upload(ctx context.Context, body io.Reader, name string, opts storage.UploadOptions) (*storage.UploadResult, error)
	Delete(ctx context.Context, fileURL string, suppressErrors bool) error
}
