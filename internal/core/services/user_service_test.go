package services

import (
	"context"
	"testing"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserServiceForTest() (*UserService, *fakeUserRepo, *fakeRoleRepo) {
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	access := NewAccessService(userRepo)
	return NewUserService(userRepo, roleRepo, access), userRepo, roleRepo
}

func TestListUsersPagination(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest()

	for i := 0; i < 25; i++ {
		userRepo.put(&models.User{Username: "user", IsActive: true})
	}

	result, err := svc.ListUsers(context.Background(), &ListUsersInput{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, result.Users, 10)
	assert.Equal(t, int64(25), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}

func TestChangePassword(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest()
	ctx := context.Background()

	hashed, err := password.Hash("old-password1")
	require.NoError(t, err)
	user := userRepo.put(&models.User{Username: "jdoe", Password: hashed, IsActive: true})

	err = svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{
		OldPassword: "wrong",
		NewPassword: "new-password1",
	})
	assert.ErrorIs(t, err, ErrOldPasswordWrong)

	err = svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{
		OldPassword: "old-password1",
		NewPassword: "short",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)

	err = svc.ChangePassword(ctx, user.ID, &ChangePasswordInput{
		OldPassword: "old-password1",
		NewPassword: "new-password1",
	})
	require.NoError(t, err)
	assert.True(t, password.Verify("new-password1", userRepo.users[user.ID].Password))
}

func TestDeleteUserSelfGuard(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest()
	ctx := context.Background()

	admin := userRepo.put(&models.User{Username: "admin", IsActive: true})
	target := userRepo.put(&models.User{Username: "target", IsActive: true})

	err := svc.DeleteUser(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrCannotDeleteSelf)

	require.NoError(t, svc.DeleteUser(ctx, admin.ID, target.ID))

	_, err = svc.GetUser(ctx, target.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAssignTeamRole(t *testing.T) {
	svc, userRepo, roleRepo := newUserServiceForTest()
	ctx := context.Background()

	user := userRepo.put(&models.User{Username: "jdoe", IsActive: true})
	role := &models.Role{RoleName: "FINANCE_OFFICER"}
	require.NoError(t, roleRepo.Create(ctx, role))

	err := svc.AssignTeamRole(ctx, user.ID, &AssignTeamRoleInput{TeamName: "HEAD_OFFICE", RoleID: 99})
	assert.ErrorIs(t, err, ErrRoleNotFound)

	err = svc.AssignTeamRole(ctx, user.ID, &AssignTeamRoleInput{TeamName: "HEAD_OFFICE", RoleID: role.ID})
	require.NoError(t, err)
	require.Len(t, userRepo.users[user.ID].TeamAssignments, 1)
	assert.Equal(t, "HEAD_OFFICE", userRepo.users[user.ID].TeamAssignments[0].TeamName)

	err = svc.RemoveTeamRole(ctx, user.ID, &AssignTeamRoleInput{TeamName: "HEAD_OFFICE", RoleID: role.ID})
	require.NoError(t, err)
	assert.Empty(t, userRepo.users[user.ID].TeamAssignments[0].Roles)
}
