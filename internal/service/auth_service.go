package service

import (
	"context"
	"encoding/json"
	"time"

	"restopos/internal/apierror"
	"restopos/internal/config"
	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/permission"
	"restopos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const rolePermCacheTTL = 5 * time.Minute

// AuthContext is the resolved identity of a request: the live account, its
// role name and the effective permission set. Admin accounts short-circuit
// every permission check — the flag is checked first and the role's
// permission set is never consulted for them.
type AuthContext struct {
	Account     *model.Account
	RoleName    string
	Permissions []string
	IsAdmin     bool
}

// Can reports whether the context satisfies a required permission code.
func (a *AuthContext) Can(code string) bool {
	if a.IsAdmin {
		return true
	}
	for _, p := range a.Permissions {
		if p == code {
			return true
		}
	}
	return false
}

type AuthService interface {
	// Login verifies credentials and returns the response body plus the
	// signed session token the handler puts in the cookie.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, string, error)
	// Resolve turns verified token claims into a live AuthContext. A token
	// whose account no longer exists resolves to unauthenticated.
	Resolve(ctx context.Context, tenantID, accountID uuid.UUID) (*AuthContext, error)
	SessionTTL() time.Duration
}

type authService struct {
	accounts repository.AccountRepository
	roles    repository.RoleRepository
	rdb      *redis.Client
	cfg      *config.Config
}

func NewAuthService(accounts repository.AccountRepository, roles repository.RoleRepository, rdb *redis.Client, cfg *config.Config) AuthService {
	return &authService{accounts: accounts, roles: roles, rdb: rdb, cfg: cfg}
}

func (s *authService) SessionTTL() time.Duration {
	return time.Duration(s.cfg.SessionTTLHours) * time.Hour
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, string, error) {
	if req.TenantID == "" || req.UserID == "" || req.Password == "" {
		return nil, "", apierror.Invalid("missing_credentials", "tenantId, userId and password are required")
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return nil, "", apierror.ErrUnauthenticated
	}

	account, err := s.accounts.FindByLogin(ctx, tenantID, req.UserID)
	if err != nil {
		return nil, "", err
	}
	if account == nil {
		return nil, "", apierror.ErrUnauthenticated
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", apierror.ErrUnauthenticated
	}

	token, err := s.generateToken(account)
	if err != nil {
		return nil, "", err
	}

	resp := &dto.LoginResponse{
		Account:   AccountToResponse(account),
		ExpiresIn: s.cfg.SessionTTLHours * 3600,
	}
	return resp, token, nil
}

func (s *authService) Resolve(ctx context.Context, tenantID, accountID uuid.UUID) (*AuthContext, error) {
	account, err := s.accounts.FindByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apierror.ErrUnauthenticated
	}

	auth := &AuthContext{Account: account, IsAdmin: account.IsAdmin}
	if account.RoleID != nil {
		name, perms, err := s.rolePermissions(ctx, tenantID, *account.RoleID)
		if err != nil {
			return nil, err
		}
		auth.RoleName = name
		auth.Permissions = perms
	}
	return auth, nil
}

// cachedRole is the redis representation of a role's resolved permission set.
type cachedRole struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// rolePermissions resolves a role to (name, normalized permissions) through
// a short-TTL redis cache. Role writes invalidate the key, the TTL covers
// everything else. Cache errors fall through to the database.
func (s *authService) rolePermissions(ctx context.Context, tenantID, roleID uuid.UUID) (string, []string, error) {
	key := rolePermCacheKey(tenantID, roleID)
	if s.rdb != nil {
		if b, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var cached cachedRole
			if json.Unmarshal(b, &cached) == nil {
				return cached.Name, cached.Permissions, nil
			}
		}
	}

	role, err := s.roles.FindByID(ctx, tenantID, roleID)
	if err != nil {
		return "", nil, err
	}
	if role == nil {
		// Stale reference — account keeps working with no role permissions.
		return "", nil, nil
	}

	perms := permission.Normalize(role.Permissions)
	if role.IsAdmin {
		perms = permission.Codes()
	}

	if s.rdb != nil {
		if b, err := json.Marshal(cachedRole{Name: role.Name, Permissions: perms}); err == nil {
			_ = s.rdb.Set(ctx, key, b, rolePermCacheTTL).Err()
		}
	}
	return role.Name, perms, nil
}

func rolePermCacheKey(tenantID, roleID uuid.UUID) string {
	return "role:" + tenantID.String() + ":" + roleID.String()
}

func (s *authService) generateToken(account *model.Account) (string, error) {
	now := time.Now()
	// The token only identifies the account; role and permissions are
	// resolved live on every request, so they are never baked into claims.
	claims := jwt.MapClaims{
		"account_id": account.ID.String(),
		"tenant_id":  account.TenantID.String(),
		"user_id":    account.UserID,
		"is_admin":   account.IsAdmin,
		"exp":        now.Add(s.SessionTTL()).Unix(),
		"iat":        now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SessionSecret))
}

// AccountToResponse maps an account (with Role preloaded where available)
// onto its API representation.
func AccountToResponse(a *model.Account) dto.AccountResponse {
	resp := dto.AccountResponse{
		ID:          a.ID.String(),
		TenantID:    a.TenantID.String(),
		UserID:      a.UserID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		IsAdmin:     a.IsAdmin,
	}
	if a.RoleID != nil {
		id := a.RoleID.String()
		resp.RoleID = &id
	}
	if a.Role != nil {
		name := a.Role.Name
		resp.RoleName = &name
	}
	return resp
}
