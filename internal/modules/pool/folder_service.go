package pool

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"epool/internal/domain"
)

const (
	linkCodeCharset   = "abcdefghijklmnopqrstuvwxyz0123456789"
	linkCodeMinLength = 4
	linkCodeMaxLength = 8
	linkCodeMaxTries  = 5
)

// FolderService implements the pool-folder lifecycle: creation (including
// the anonymous-owner variant), access-checked reads, mutation, and the
// invite-link flow.
type FolderService struct {
	folders       FolderRepositoryInterface
	members       MemberRepositoryInterface
	users         UserRepositoryInterface
	publicBaseURL string
}

func NewFolderService(
	folders FolderRepositoryInterface,
	members MemberRepositoryInterface,
	users UserRepositoryInterface,
	publicBaseURL string,
) *FolderService {
	return &FolderService{
		folders:       folders,
		members:       members,
		users:         users,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// CreateFolder inserts the folder and its owner membership in one
// transaction. With no authenticated actor an email is required: an existing
// anonymous account with that email is reused, a fresh one is created
// otherwise, and a registered (non-anonymous) account is told to sign in.
func (s *FolderService) CreateFolder(ctx context.Context, actorID string, req CreateFolderRequest) (*CreateFolderResult, error) {
	owner, err := s.resolveOwner(ctx, actorID, req.Email)
	if err != nil {
		return nil, err
	}

	folder := &domain.PoolFolder{
		OwnerID: owner.ID,
		Name:    req.Name,
	}
	if err := s.folders.CreateWithOwner(ctx, folder, owner); err != nil {
		zap.L().Error("create pool folder failed", zap.Error(err))
		return nil, ErrInternal
	}

	return &CreateFolderResult{Folder: folder, Owner: owner}, nil
}

func (s *FolderService) resolveOwner(ctx context.Context, actorID string, email *string) (*domain.User, error) {
	if actorID != "" {
		user, err := s.users.GetByID(ctx, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, ErrInternal
		}
		return user, nil
	}

	if email == nil || strings.TrimSpace(*email) == "" {
		return nil, ErrEmailRequired
	}

	existing, err := s.users.GetByEmail(ctx, *email)
	switch {
	case err == nil:
		if !existing.IsAnonymous {
			return nil, ErrPleaseSignIn
		}
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.createAnonymousUser(ctx, *email)
	default:
		return nil, ErrInternal
	}
}

func (s *FolderService) createAnonymousUser(ctx context.Context, email string) (*domain.User, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return nil, ErrInternal
	}
	username := "anonymous_" + hex.EncodeToString(suffix)

	user := &domain.User{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Username:    &username,
		IsAnonymous: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		zap.L().Error("create anonymous user failed", zap.Error(err))
		return nil, ErrInternal
	}
	return user, nil
}

// GetFolder returns the folder to its owner or any member.
func (s *FolderService) GetFolder(ctx context.Context, actorID, folderID string) (*domain.PoolFolder, error) {
	folder, err := s.loadFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !folder.CanRead(actorID) {
		return nil, ErrNoFolderAccess
	}
	return folder, nil
}

func (s *FolderService) GetOwnedFolders(ctx context.Context, actorID string) ([]domain.PoolFolder, error) {
	folders, err := s.folders.ListOwnedBy(ctx, actorID)
	if err != nil {
		return nil, ErrInternal
	}
	return folders, nil
}

// GetMemberFolders lists the folders the actor belongs to through a
// membership row, most recently joined first.
func (s *FolderService) GetMemberFolders(ctx context.Context, actorID string) ([]domain.PoolFolder, error) {
	memberships, err := s.members.ListByUser(ctx, actorID)
	if err != nil {
		return nil, ErrInternal
	}

	folders := make([]domain.PoolFolder, 0, len(memberships))
	for _, m := range memberships {
		if m.PoolFolder != nil {
			folders = append(folders, *m.PoolFolder)
		}
	}
	return folders, nil
}

func (s *FolderService) GetAllFolders(ctx context.Context, offset, limit int) ([]domain.PoolFolder, int64, error) {
	folders, total, err := s.folders.ListPage(ctx, "", offset, limit)
	if err != nil {
		return nil, 0, ErrInternal
	}
	return folders, total, nil
}

func (s *FolderService) UpdateFolder(ctx context.Context, actorID, folderID string, req UpdateFolderRequest) (*domain.PoolFolder, error) {
	folder, err := s.loadFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !folder.CanModify(actorID) {
		return nil, ErrNoFolderPermission
	}

	if req.Name != nil {
		folder.Name = req.Name
	}
	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, ErrInternal
	}
	return folder, nil
}

func (s *FolderService) DeleteFolder(ctx context.Context, actorID, folderID string) error {
	folder, err := s.loadFolder(ctx, folderID)
	if err != nil {
		return err
	}
	if !folder.CanModify(actorID) {
		return ErrNoFolderPermission
	}

	if err := s.folders.Delete(ctx, folder.ID); err != nil {
		return ErrInternal
	}
	return nil
}

// GenerateInviteLink mints a short join code for the folder owner. Codes are
// drawn from [a-z0-9] starting at four characters; after five collisions at
// a given length the length grows, up to eight characters, after which the
// attempt fails rather than looping forever.
func (s *FolderService) GenerateInviteLink(ctx context.Context, actorID, folderID string) (*InviteLink, error) {
	folder, err := s.loadFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !folder.IsOwnedBy(actorID) {
		return nil, ErrOwnerOnlyLink
	}

	code, err := s.uniqueLinkCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	folder.LinkCode = &code
	folder.LinkGeneratedAt = &now
	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, ErrInternal
	}

	return &InviteLink{
		LinkCode:    code,
		URL:         fmt.Sprintf("%s/pool-folder/join/%s", s.publicBaseURL, code),
		GeneratedAt: now,
	}, nil
}

func (s *FolderService) uniqueLinkCode(ctx context.Context) (string, error) {
	for length := linkCodeMinLength; length <= linkCodeMaxLength; length++ {
		for try := 0; try < linkCodeMaxTries; try++ {
			code, err := randomLinkCode(length)
			if err != nil {
				return "", ErrInternal
			}
			exists, err := s.folders.LinkCodeExists(ctx, code)
			if err != nil {
				return "", ErrInternal
			}
			if !exists {
				return code, nil
			}
		}
	}
	return "", ErrLinkCodeExhausted
}

func randomLinkCode(length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(linkCodeCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = linkCodeCharset[n.Int64()]
	}
	return string(b), nil
}

// JoinViaLink resolves an invite code and adds the caller as a regular
// member. The folder owner already holds the owner membership and cannot
// join again.
func (s *FolderService) JoinViaLink(ctx context.Context, actorID, linkCode string) (*domain.PoolMember, error) {
	folder, err := s.folders.GetByLinkCode(ctx, linkCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, ErrInternal
	}

	if folder.IsOwnedBy(actorID) {
		return nil, ErrOwnerCannotJoin
	}

	if _, err := s.members.FindByFolderAndUser(ctx, folder.ID, actorID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInternal
	}

	member := &domain.PoolMember{
		PoolFolderID: folder.ID,
		UserID:       actorID,
		IsOwner:      false,
		InvitedAt:    time.Now(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, ErrInternal
	}
	return member, nil
}

func (s *FolderService) loadFolder(ctx context.Context, folderID string) (*domain.PoolFolder, error) {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, ErrInternal
	}
	return folder, nil
}
