package services

import (
	"context"
	"testing"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOperator(repo *fakeUserRepo, roles ...models.Role) *models.User {
	return repo.put(&models.User{
		Username: "operator",
		IsActive: true,
		TeamAssignments: []models.TeamAssignment{
			{TeamName: "HEAD_OFFICE", Roles: roles},
		},
	})
}

func financeRole() models.Role {
	return models.Role{
		ID:       2,
		RoleName: "FINANCE_OFFICER",
		Sections: []models.RoleSection{
			{ModuleName: "payments", SubModules: []models.SubModulePermission{
				{SubModuleName: "settlements", CanCreate: true, CanRead: true},
			}},
		},
	}
}

func TestAccessServiceAdminOverride(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedOperator(repo, models.Role{ID: 1, RoleName: domain.AdminRoleName})
	svc := NewAccessService(repo)
	defer svc.Close()

	allowed, err := svc.Can(context.Background(), user.ID, "verification", "cheque-verification", domain.ActionDelete)
	require.NoError(t, err)
	assert.True(t, allowed, "admin must pass every check")
}

func TestAccessServiceGrantAndDeny(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedOperator(repo, financeRole())
	svc := NewAccessService(repo)
	defer svc.Close()
	ctx := context.Background()

	allowed, err := svc.Can(ctx, user.ID, "payments", "settlements", domain.ActionCreate)
	require.NoError(t, err)
	assert.True(t, allowed)

	denied, err := svc.Can(ctx, user.ID, "payments", "settlements", domain.ActionDelete)
	require.NoError(t, err)
	assert.False(t, denied, "ungranted action must be denied")

	denied, err = svc.Can(ctx, user.ID, "verification", "cheque-verification", domain.ActionRead)
	require.NoError(t, err)
	assert.False(t, denied, "ungranted module must be denied")
}

func TestAccessServiceMergesGrantsAcrossRoles(t *testing.T) {
	readOnly := models.Role{
		ID:       3,
		RoleName: "AUDITOR",
		Sections: []models.RoleSection{
			{ModuleName: "payments", SubModules: []models.SubModulePermission{
				{SubModuleName: "settlements", CanRead: true, CanDelete: true},
			}},
		},
	}

	repo := newFakeUserRepo()
	user := seedOperator(repo, financeRole(), readOnly)
	svc := NewAccessService(repo)
	defer svc.Close()
	ctx := context.Background()

	// Union of both roles: create from one, delete from the other
	for _, action := range []domain.Action{domain.ActionCreate, domain.ActionRead, domain.ActionDelete} {
		allowed, err := svc.Can(ctx, user.ID, "payments", "settlements", action)
		require.NoError(t, err)
		assert.True(t, allowed, "merged grant should allow %s", action)
	}

	allowed, err := svc.Can(ctx, user.ID, "payments", "settlements", domain.ActionUpdate)
	require.NoError(t, err)
	assert.False(t, allowed, "no role grants update")
}

func TestAccessServiceCachesSnapshots(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedOperator(repo, financeRole())
	svc := NewAccessService(repo)
	defer svc.Close()
	ctx := context.Background()

	_, err := svc.GetSnapshot(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.GetSnapshot(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getByIDCalls, "second lookup must hit the cache")

	svc.Invalidate(user.ID)
	_, err = svc.GetSnapshot(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getByIDCalls, "invalidation must force a reload")
}

func TestAccessServiceUnknownUser(t *testing.T) {
	svc := NewAccessService(newFakeUserRepo())
	defer svc.Close()

	_, err := svc.GetSnapshot(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccessServiceFilterNav(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedOperator(repo, financeRole())
	svc := NewAccessService(repo)
	defer svc.Close()

	tree := []domain.NavModule{
		{ModuleName: "dashboard", AlwaysAllowed: true},
		{ModuleName: "payments", SubModules: []domain.NavItem{
			{SubModuleName: "settlements"},
			{SubModuleName: "partial-payments"},
		}},
		{ModuleName: "verification", SubModules: []domain.NavItem{
			{SubModuleName: "cheque-verification"},
		}},
	}

	visible, err := svc.FilterNav(context.Background(), user.ID, tree)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "dashboard", visible[0].ModuleName)
	assert.Equal(t, "payments", visible[1].ModuleName)
	require.Len(t, visible[1].SubModules, 1)
	assert.Equal(t, "settlements", visible[1].SubModules[0].SubModuleName)
}

func TestAccessServiceCloseIsIdempotent(t *testing.T) {
	svc := NewAccessService(newFakeUserRepo())
	svc.Close()
	svc.Close()
}
