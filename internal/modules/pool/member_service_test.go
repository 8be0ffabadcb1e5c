package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"epool/internal/domain"
)

func TestMemberService_AddMember_Success(t *testing.T) {
	folders := new(mockFolderRepo)
	members := new(mockMemberRepo)
	users := new(mockUserRepo)

	folders.On("GetByID", mock.Anything, "folder-1").Return(testFolder("owner"), nil)
	users.On("GetByID", mock.Anything, "u2").Return(&domain.User{ID: "u2"}, nil)
	members.On("FindByFolderAndUser", mock.Anything, "folder-1", "u2").Return(nil, gorm.ErrRecordNotFound)
	members.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewMemberService(members, folders, users)

	member, err := service.AddMember(context.Background(), "owner", CreateMemberRequest{
		PoolFolderID: "folder-1",
		UserID:       "u2",
	})

	assert.NoError(t, err)
	assert.Equal(t, "u2", member.UserID)
	members.AssertExpectations(t)
}

func TestMemberService_AddMember_NotAllowed(t *testing.T) {
	folders := new(mockFolderRepo)
	folders.On("GetByID", mock.Anything, "folder-1").
		Return(testFolder("owner", domain.PoolMember{UserID: "member"}), nil)

	service := NewMemberService(new(mockMemberRepo), folders, new(mockUserRepo))

	_, err := service.AddMember(context.Background(), "member", CreateMemberRequest{
		PoolFolderID: "folder-1",
		UserID:       "u3",
	})

	assert.ErrorIs(t, err, ErrNoMemberPermission)
}

func TestMemberService_AddMember_Duplicate(t *testing.T) {
	folders := new(mockFolderRepo)
	members := new(mockMemberRepo)
	users := new(mockUserRepo)

	folders.On("GetByID", mock.Anything, "folder-1").Return(testFolder("owner"), nil)
	users.On("GetByID", mock.Anything, "u2").Return(&domain.User{ID: "u2"}, nil)
	members.On("FindByFolderAndUser", mock.Anything, "folder-1", "u2").
		Return(&domain.PoolMember{ID: "m1"}, nil)

	service := NewMemberService(members, folders, users)

	_, err := service.AddMember(context.Background(), "owner", CreateMemberRequest{
		PoolFolderID: "folder-1",
		UserID:       "u2",
	})

	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestMemberService_RemoveMember_SelfAllowed(t *testing.T) {
	members := new(mockMemberRepo)
	members.On("GetByID", mock.Anything, "m1").Return(&domain.PoolMember{
		ID:         "m1",
		UserID:     "member",
		PoolFolder: testFolder("owner", domain.PoolMember{UserID: "member"}),
	}, nil)
	members.On("Delete", mock.Anything, "m1").Return(nil)

	service := NewMemberService(members, new(mockFolderRepo), new(mockUserRepo))

	err := service.RemoveMember(context.Background(), "member", "m1")

	assert.NoError(t, err)
	members.AssertExpectations(t)
}

func TestMemberService_RemoveMember_StrangerRejected(t *testing.T) {
	members := new(mockMemberRepo)
	members.On("GetByID", mock.Anything, "m1").Return(&domain.PoolMember{
		ID:         "m1",
		UserID:     "member",
		PoolFolder: testFolder("owner", domain.PoolMember{UserID: "member"}),
	}, nil)

	service := NewMemberService(members, new(mockFolderRepo), new(mockUserRepo))

	err := service.RemoveMember(context.Background(), "stranger", "m1")

	assert.ErrorIs(t, err, ErrNoMemberPermission)
}

func TestMemberService_UpdateMember_OwnerPromotes(t *testing.T) {
	members := new(mockMemberRepo)
	target := &domain.PoolMember{
		ID:         "m1",
		UserID:     "member",
		PoolFolder: testFolder("owner", domain.PoolMember{UserID: "member"}),
	}
	members.On("GetByID", mock.Anything, "m1").Return(target, nil)
	members.On("Update", mock.Anything, target).Return(nil)

	service := NewMemberService(members, new(mockFolderRepo), new(mockUserRepo))

	isOwner := true
	updated, err := service.UpdateMember(context.Background(), "owner", "m1", UpdateMemberRequest{IsOwner: &isOwner})

	assert.NoError(t, err)
	assert.True(t, updated.IsOwner)
}

func TestMemberService_GetMembersByFolder_Gated(t *testing.T) {
	folders := new(mockFolderRepo)
	members := new(mockMemberRepo)

	folder := testFolder("owner", domain.PoolMember{UserID: "member"})
	folders.On("GetByID", mock.Anything, "folder-1").Return(folder, nil)
	members.On("ListByFolder", mock.Anything, "folder-1").
		Return([]domain.PoolMember{{ID: "m1"}}, nil)

	service := NewMemberService(members, folders, new(mockUserRepo))

	listed, err := service.GetMembersByFolder(context.Background(), "member", "folder-1")
	assert.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = service.GetMembersByFolder(context.Background(), "stranger", "folder-1")
	assert.ErrorIs(t, err, ErrNoFolderAccess)
}

func TestMemberService_GetMember_NotFound(t *testing.T) {
	members := new(mockMemberRepo)
	members.On("GetByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	service := NewMemberService(members, new(mockFolderRepo), new(mockUserRepo))

	_, err := service.GetMember(context.Background(), "owner", "missing")

	assert.ErrorIs(t, err, ErrMemberNotFound)
}
