package pool

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"epool/internal/domain"
)

// MemberService manages explicit membership rows: adding, privilege changes,
// removal, and the membership listings.
type MemberService struct {
	members MemberRepositoryInterface
	folders FolderRepositoryInterface
	users   UserRepositoryInterface
}

func NewMemberService(
	members MemberRepositoryInterface,
	folders FolderRepositoryInterface,
	users UserRepositoryInterface,
) *MemberService {
	return &MemberService{members: members, folders: folders, users: users}
}

// AddMember adds userID to the folder. The actor must be the folder owner or
// an owner-privileged member.
func (s *MemberService) AddMember(ctx context.Context, actorID string, req CreateMemberRequest) (*domain.PoolMember, error) {
	folder, err := s.folders.GetByID(ctx, req.PoolFolderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, ErrInternal
	}
	if !folder.CanModify(actorID) {
		return nil, ErrNoMemberPermission
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}

	if _, err := s.members.FindByFolderAndUser(ctx, folder.ID, req.UserID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInternal
	}

	member := &domain.PoolMember{
		PoolFolderID: folder.ID,
		UserID:       req.UserID,
		IsOwner:      req.IsOwner,
		InvitedAt:    time.Now(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, ErrInternal
	}
	return member, nil
}

func (s *MemberService) GetMember(ctx context.Context, actorID, memberID string) (*domain.PoolMember, error) {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.PoolFolder == nil || !member.PoolFolder.CanRead(actorID) {
		return nil, ErrNoFolderAccess
	}
	return member, nil
}

// GetMembersByFolder lists a folder's members oldest first, visible to the
// owner and members.
func (s *MemberService) GetMembersByFolder(ctx context.Context, actorID, folderID string) ([]domain.PoolMember, error) {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, ErrInternal
	}
	if !folder.CanRead(actorID) {
		return nil, ErrNoFolderAccess
	}

	members, err := s.members.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, ErrInternal
	}
	return members, nil
}

func (s *MemberService) GetUserMemberships(ctx context.Context, userID string) ([]domain.PoolMember, error) {
	members, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return members, nil
}

func (s *MemberService) GetAllMembers(ctx context.Context, offset, limit int) ([]domain.PoolMember, int64, error) {
	members, total, err := s.members.ListPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, ErrInternal
	}
	return members, total, nil
}

func (s *MemberService) UpdateMember(ctx context.Context, actorID, memberID string, req UpdateMemberRequest) (*domain.PoolMember, error) {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.PoolFolder == nil || !member.PoolFolder.CanModify(actorID) {
		return nil, ErrNoMemberPermission
	}

	if req.IsOwner != nil {
		member.IsOwner = *req.IsOwner
	}
	if err := s.members.Update(ctx, member); err != nil {
		return nil, ErrInternal
	}
	return member, nil
}

// RemoveMember deletes a membership. Besides the folder's modifiers, a
// member may remove their own row (leaving the folder).
func (s *MemberService) RemoveMember(ctx context.Context, actorID, memberID string) error {
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return err
	}

	allowed := member.UserID == actorID ||
		(member.PoolFolder != nil && member.PoolFolder.CanModify(actorID))
	if !allowed {
		return ErrNoMemberPermission
	}

	if err := s.members.Delete(ctx, member.ID); err != nil {
		return ErrInternal
	}
	return nil
}

func (s *MemberService) loadMember(ctx context.Context, memberID string) (*domain.PoolMember, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, ErrInternal
	}
	return member, nil
}
