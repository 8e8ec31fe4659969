package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/permission"
	"restopos/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
	adminRoleName     = "Administrator"
)

type AccountService interface {
	Bootstrap(ctx context.Context, req dto.BootstrapRequest) (*dto.BootstrapResponse, error)
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateAccountRequest) (*dto.AccountResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]dto.AccountResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.AccountResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateAccountRequest) (*dto.AccountResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type accountService struct {
	accounts repository.AccountRepository
	roles    repository.RoleRepository
}

func NewAccountService(accounts repository.AccountRepository, roles repository.RoleRepository) AccountService {
	return &accountService{accounts: accounts, roles: roles}
}

// Bootstrap creates a tenant's first admin account together with the
// built-in admin role. Rejected with admin_exists once the tenant has any
// admin account, so it can only ever run once per tenant.
func (s *accountService) Bootstrap(ctx context.Context, req dto.BootstrapRequest) (*dto.BootstrapResponse, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, apierror.Invalid("userId_required", "userId is required")
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	tenantID := uuid.New()
	if req.TenantID != nil {
		parsed, err := uuid.Parse(*req.TenantID)
		if err != nil {
			return nil, apierror.Invalid("validation_failed", "tenantId must be a valid uuid")
		}
		tenantID = parsed
	}

	admins, err := s.accounts.CountAdmins(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if admins > 0 {
		return nil, apierror.Conflict("admin_exists", "tenant already has an admin account")
	}

	adminRole, err := s.roles.FindAdminRole(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if adminRole == nil {
		adminRole = &model.Role{
			TenantID:    tenantID,
			Name:        adminRoleName,
			Permissions: permission.Codes(),
			IsAdmin:     true,
		}
		if err := s.roles.Create(ctx, adminRole); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.UserID
	}
	account := &model.Account{
		TenantID:     tenantID,
		UserID:       req.UserID,
		DisplayName:  displayName,
		Email:        req.Email,
		RoleID:       &adminRole.ID,
		IsAdmin:      true,
		PasswordHash: string(hash),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("account_exists", "an account with this userId already exists")
		}
		return nil, err
	}
	account.Role = adminRole

	return &dto.BootstrapResponse{
		TenantID:             tenantID.String(),
		Account:              AccountToResponse(account),
		AdminRoleID:          adminRole.ID.String(),
		AvailablePermissions: permission.Catalog,
	}, nil
}

func (s *accountService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, apierror.Invalid("userId_required", "userId is required")
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	var role *model.Role
	if req.RoleID != nil {
		roleID, err := uuid.Parse(*req.RoleID)
		if err != nil {
			return nil, apierror.New(http.StatusNotFound, "role_not_found", "role not found")
		}
		role, err = s.roles.FindByID(ctx, tenantID, roleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, apierror.New(http.StatusNotFound, "role_not_found", "role not found")
		}
	} else if !req.IsAdmin {
		return nil, apierror.Invalid("role_required", "non-admin accounts require a role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.UserID
	}
	account := &model.Account{
		TenantID:     tenantID,
		UserID:       req.UserID,
		DisplayName:  displayName,
		Email:        req.Email,
		IsAdmin:      req.IsAdmin,
		PasswordHash: string(hash),
	}
	if role != nil {
		account.RoleID = &role.ID
		account.Role = role
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("account_exists", "an account with this userId already exists")
		}
		return nil, err
	}

	resp := AccountToResponse(account)
	return &resp, nil
}

func (s *accountService) List(ctx context.Context, tenantID uuid.UUID) ([]dto.AccountResponse, error) {
	accounts, err := s.accounts.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AccountResponse, len(accounts))
	for i := range accounts {
		resp[i] = AccountToResponse(&accounts[i])
	}
	return resp, nil
}

func (s *accountService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.AccountResponse, error) {
	account, err := s.findAccount(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := AccountToResponse(account)
	return &resp, nil
}

func (s *accountService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	account, err := s.findAccount(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	// Demoting the last admin would leave the tenant locked out.
	if req.IsAdmin != nil && account.IsAdmin && !*req.IsAdmin {
		admins, err := s.accounts.CountAdmins(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, apierror.Conflict("no_last_admin", "cannot demote the last admin account")
		}
	}

	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) != "" {
		account.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Email != nil {
		account.Email = req.Email
	}
	if req.Password != nil {
		if err := checkPassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = string(hash)
	}
	if req.RoleID != nil {
		roleID, err := uuid.Parse(*req.RoleID)
		if err != nil {
			return nil, apierror.New(http.StatusNotFound, "role_not_found", "role not found")
		}
		role, err := s.roles.FindByID(ctx, tenantID, roleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, apierror.New(http.StatusNotFound, "role_not_found", "role not found")
		}
		account.RoleID = &role.ID
		account.Role = role
	}
	if req.IsAdmin != nil {
		account.IsAdmin = *req.IsAdmin
	}
	if account.RoleID == nil && !account.IsAdmin {
		return nil, apierror.Invalid("role_required", "non-admin accounts require a role")
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	resp := AccountToResponse(account)
	return &resp, nil
}

func (s *accountService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	account, err := s.findAccount(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if account.IsAdmin {
		admins, err := s.accounts.CountAdmins(ctx, tenantID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apierror.Conflict("no_last_admin", "cannot delete the last admin account")
		}
	}
	return s.accounts.Delete(ctx, tenantID, id)
}

func (s *accountService) findAccount(ctx context.Context, tenantID, id uuid.UUID) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apierror.ErrNotFound
	}
	return account, nil
}

func checkPassword(pw string) error {
	if pw == "" {
		return apierror.Invalid("missing_credentials", "password is required")
	}
	if len(pw) < minPasswordLength {
		return apierror.Invalid("weak_password", "password must be at least 8 characters")
	}
	return nil
}
