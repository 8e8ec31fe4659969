package service

import (
	"context"
	"testing"

	"restopos/internal/apierror"
	"restopos/internal/config"
	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/permission"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{SessionSecret: "test-secret", SessionTTLHours: 12}
}

func seedLoginAccount(t *testing.T, accounts *fakeAccountRepo, tenantID uuid.UUID, userID, password string, role *model.Role, isAdmin bool) *model.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	a := &model.Account{
		TenantID:     tenantID,
		UserID:       userID,
		DisplayName:  userID,
		IsAdmin:      isAdmin,
		PasswordHash: string(hash),
	}
	if role != nil {
		a.RoleID = &role.ID
		a.Role = role
	}
	require.NoError(t, accounts.Create(context.Background(), a))
	return a
}

func TestLoginValidatesCredentials(t *testing.T) {
	accounts, roles := newFakeAccountRepo(), newFakeRoleRepo()
	svc := NewAuthService(accounts, roles, nil, testConfig())
	tenantID := uuid.New()
	seedLoginAccount(t, accounts, tenantID, "owner", "super-secret", nil, true)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, dto.LoginRequest{TenantID: tenantID.String(), UserID: "owner"})
	assert.Equal(t, "missing_credentials", asAPIError(t, err).Code)

	_, _, err = svc.Login(ctx, dto.LoginRequest{TenantID: "not-a-uuid", UserID: "owner", Password: "super-secret"})
	assert.Equal(t, apierror.ErrUnauthenticated, err)

	_, _, err = svc.Login(ctx, dto.LoginRequest{TenantID: tenantID.String(), UserID: "ghost", Password: "super-secret"})
	assert.Equal(t, apierror.ErrUnauthenticated, err)

	_, _, err = svc.Login(ctx, dto.LoginRequest{TenantID: tenantID.String(), UserID: "owner", Password: "wrong"})
	assert.Equal(t, apierror.ErrUnauthenticated, err)
}

func TestLoginIssuesSignedToken(t *testing.T) {
	accounts, roles := newFakeAccountRepo(), newFakeRoleRepo()
	cfg := testConfig()
	svc := NewAuthService(accounts, roles, nil, cfg)
	tenantID := uuid.New()
	account := seedLoginAccount(t, accounts, tenantID, "owner", "super-secret", nil, true)

	resp, token, err := svc.Login(context.Background(), dto.LoginRequest{
		TenantID: tenantID.String(), UserID: "owner", Password: "super-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), resp.Account.ID)
	assert.Equal(t, 12*3600, resp.ExpiresIn)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.SessionSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, account.ID.String(), claims["account_id"])
	assert.Equal(t, tenantID.String(), claims["tenant_id"])
	assert.Equal(t, true, claims["is_admin"])
}

func TestResolveUnknownAccount(t *testing.T) {
	svc := NewAuthService(newFakeAccountRepo(), newFakeRoleRepo(), nil, testConfig())

	_, err := svc.Resolve(context.Background(), uuid.New(), uuid.New())
	assert.Equal(t, apierror.ErrUnauthenticated, err)
}

func TestResolvePermissionsFromRole(t *testing.T) {
	accounts, roles := newFakeAccountRepo(), newFakeRoleRepo()
	svc := NewAuthService(accounts, roles, nil, testConfig())
	tenantID := uuid.New()

	role := &model.Role{TenantID: tenantID, Name: "Cashier", Permissions: []string{permission.POSUse, permission.CashOpen}}
	require.NoError(t, roles.Create(context.Background(), role))
	account := seedLoginAccount(t, accounts, tenantID, "waiter", "super-secret", role, false)

	auth, err := svc.Resolve(context.Background(), tenantID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cashier", auth.RoleName)
	assert.Equal(t, []string{permission.POSUse, permission.CashOpen}, auth.Permissions)

	assert.True(t, auth.Can(permission.POSUse))
	assert.True(t, auth.Can(permission.CashOpen))
	assert.False(t, auth.Can(permission.CashClose))
	assert.False(t, auth.Can(permission.SettingsManage))
}

func TestResolveAdminBypassesPermissions(t *testing.T) {
	accounts, roles := newFakeAccountRepo(), newFakeRoleRepo()
	svc := NewAuthService(accounts, roles, nil, testConfig())
	tenantID := uuid.New()
	account := seedLoginAccount(t, accounts, tenantID, "owner", "super-secret", nil, true)

	auth, err := svc.Resolve(context.Background(), tenantID, account.ID)
	require.NoError(t, err)
	assert.True(t, auth.IsAdmin)
	for _, code := range permission.Codes() {
		assert.True(t, auth.Can(code), code)
	}
}

func TestResolveStaleRoleReference(t *testing.T) {
	accounts, roles := newFakeAccountRepo(), newFakeRoleRepo()
	svc := NewAuthService(accounts, roles, nil, testConfig())
	tenantID := uuid.New()

	role := &model.Role{TenantID: tenantID, Name: "Cashier", Permissions: []string{permission.POSUse}}
	require.NoError(t, roles.Create(context.Background(), role))
	account := seedLoginAccount(t, accounts, tenantID, "waiter", "super-secret", role, false)

	// Role disappears underneath the account
	require.NoError(t, roles.Delete(context.Background(), tenantID, role.ID))

	auth, err := svc.Resolve(context.Background(), tenantID, account.ID)
	require.NoError(t, err)
	assert.Empty(t, auth.Permissions)
	assert.False(t, auth.Can(permission.POSUse))
}
