package service

import (
	"context"
	"testing"

	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/permission"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAdminRole(t *testing.T, roles *fakeRoleRepo, tenantID uuid.UUID) *model.Role {
	t.Helper()
	role := &model.Role{
		TenantID:    tenantID,
		Name:        "Administrator",
		Permissions: permission.Codes(),
		IsAdmin:     true,
	}
	require.NoError(t, roles.Create(context.Background(), role))
	return role
}

func TestCreateRoleNormalizesPermissions(t *testing.T) {
	svc := NewRoleService(newFakeRoleRepo(), newFakeAccountRepo(), nil)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateRoleRequest{
		Name:        "Cashier",
		Permissions: []string{"pos.use", "bogus.code", "pos.use", "cash.open"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"pos.use", "cash.open"}, resp.Permissions)
	assert.False(t, resp.IsAdmin)
}

func TestCreateRoleValidation(t *testing.T) {
	svc := NewRoleService(newFakeRoleRepo(), newFakeAccountRepo(), nil)
	tenantID := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, tenantID, dto.CreateRoleRequest{Permissions: []string{"pos.use"}})
	assert.Equal(t, "name_required", asAPIError(t, err).Code)

	// All entries unknown → nothing survives normalization
	_, err = svc.Create(ctx, tenantID, dto.CreateRoleRequest{
		Name: "Ghost", Permissions: []string{"bogus.one", "bogus.two"},
	})
	assert.Equal(t, "permissions_required", asAPIError(t, err).Code)

	_, err = svc.Create(ctx, tenantID, dto.CreateRoleRequest{Name: "Cashier", Permissions: []string{"pos.use"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, tenantID, dto.CreateRoleRequest{Name: "Cashier", Permissions: []string{"pos.use"}})
	assert.Equal(t, "duplicate_role", asAPIError(t, err).Code)
}

func TestUpdateAdminRolePermissionsPinned(t *testing.T) {
	roles := newFakeRoleRepo()
	svc := NewRoleService(roles, newFakeAccountRepo(), nil)
	tenantID := uuid.New()
	admin := seedAdminRole(t, roles, tenantID)

	// Stripping anything from the admin role is refused
	_, err := svc.Update(context.Background(), tenantID, admin.ID, dto.UpdateRoleRequest{
		Permissions: []string{permission.POSUse},
	})
	ae := asAPIError(t, err)
	assert.Equal(t, 409, ae.Status)
	assert.Equal(t, "no_last_admin", ae.Code)

	// Re-submitting the full catalog is a no-op and succeeds
	resp, err := svc.Update(context.Background(), tenantID, admin.ID, dto.UpdateRoleRequest{
		Permissions: permission.Codes(),
	})
	require.NoError(t, err)
	assert.Equal(t, permission.Codes(), resp.Permissions)
}

func TestUpdateRole(t *testing.T) {
	roles := newFakeRoleRepo()
	svc := NewRoleService(roles, newFakeAccountRepo(), nil)
	tenantID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, tenantID, dto.CreateRoleRequest{
		Name: "Cashier", Permissions: []string{"pos.use"},
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	resp, err := svc.Update(ctx, tenantID, id, dto.UpdateRoleRequest{
		Name:        strptr("Head Cashier"),
		Permissions: []string{"pos.use", "cash.open", "cash.close"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Head Cashier", resp.Name)
	assert.Equal(t, []string{"pos.use", "cash.open", "cash.close"}, resp.Permissions)

	// Emptying the permission set is refused
	_, err = svc.Update(ctx, tenantID, id, dto.UpdateRoleRequest{Permissions: []string{"bogus"}})
	assert.Equal(t, "permissions_required", asAPIError(t, err).Code)

	_, err = svc.Update(ctx, tenantID, uuid.New(), dto.UpdateRoleRequest{Name: strptr("x")})
	assert.Equal(t, "role_not_found", asAPIError(t, err).Code)
}

func TestDeleteRoleGuards(t *testing.T) {
	roles, accounts := newFakeRoleRepo(), newFakeAccountRepo()
	svc := NewRoleService(roles, accounts, nil)
	tenantID := uuid.New()
	ctx := context.Background()

	admin := seedAdminRole(t, roles, tenantID)
	err := svc.Delete(ctx, tenantID, admin.ID)
	assert.Equal(t, "cannot_delete_admin_role", asAPIError(t, err).Code)

	created, err := svc.Create(ctx, tenantID, dto.CreateRoleRequest{
		Name: "Cashier", Permissions: []string{"pos.use"},
	})
	require.NoError(t, err)
	roleID := uuid.MustParse(created.ID)

	// Assigned role cannot be deleted
	require.NoError(t, accounts.Create(ctx, &model.Account{
		TenantID: tenantID, UserID: "waiter", DisplayName: "Waiter",
		RoleID: &roleID, PasswordHash: "x",
	}))
	err = svc.Delete(ctx, tenantID, roleID)
	assert.Equal(t, "role_in_use", asAPIError(t, err).Code)

	require.NoError(t, accounts.Delete(ctx, tenantID, findAccountID(t, accounts, tenantID, "waiter")))
	require.NoError(t, svc.Delete(ctx, tenantID, roleID))

	err = svc.Delete(ctx, tenantID, roleID)
	assert.Equal(t, "role_not_found", asAPIError(t, err).Code)
}

func TestListRolesIncludesCatalog(t *testing.T) {
	roles := newFakeRoleRepo()
	svc := NewRoleService(roles, newFakeAccountRepo(), nil)
	tenantID := uuid.New()
	seedAdminRole(t, roles, tenantID)

	resp, err := svc.List(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, resp.Roles, 1)
	assert.True(t, resp.Roles[0].IsAdmin)
	assert.Equal(t, permission.Codes(), resp.Roles[0].Permissions)
	assert.Equal(t, permission.Catalog, resp.AvailablePermissions)
}

func findAccountID(t *testing.T, accounts *fakeAccountRepo, tenantID uuid.UUID, userID string) uuid.UUID {
	t.Helper()
	a, err := accounts.FindByLogin(context.Background(), tenantID, userID)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.ID
}
