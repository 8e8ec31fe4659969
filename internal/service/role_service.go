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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type RoleService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateRoleRequest) (*dto.RoleResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) (*dto.RoleListResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.RoleResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateRoleRequest) (*dto.RoleResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type roleService struct {
	roles    repository.RoleRepository
	accounts repository.AccountRepository
	rdb      *redis.Client
}

func NewRoleService(roles repository.RoleRepository, accounts repository.AccountRepository, rdb *redis.Client) RoleService {
	return &roleService{roles: roles, accounts: accounts, rdb: rdb}
}

func (s *roleService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apierror.Invalid("name_required", "role name is required")
	}
	perms := permission.Normalize(req.Permissions)
	if len(perms) == 0 {
		return nil, apierror.Invalid("permissions_required", "at least one valid permission is required")
	}

	role := &model.Role{
		TenantID:    tenantID,
		Name:        name,
		Permissions: perms,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("duplicate_role", "a role with this name already exists")
		}
		return nil, err
	}
	resp := roleToResponse(role)
	return &resp, nil
}

func (s *roleService) List(ctx context.Context, tenantID uuid.UUID) (*dto.RoleListResponse, error) {
	roles, err := s.roles.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := &dto.RoleListResponse{
		Roles:                make([]dto.RoleResponse, len(roles)),
		AvailablePermissions: permission.Catalog,
	}
	for i := range roles {
		resp.Roles[i] = roleToResponse(&roles[i])
	}
	return resp, nil
}

func (s *roleService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.RoleResponse, error) {
	role, err := s.findRole(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := roleToResponse(role)
	return &resp, nil
}

func (s *roleService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	role, err := s.findRole(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apierror.Invalid("name_required", "role name is required")
		}
		role.Name = name
	}
	if req.Permissions != nil {
		perms := permission.Normalize(req.Permissions)
		if role.IsAdmin {
			// The admin role is pinned to the full catalog; stripping
			// permissions from it would break the admin guarantee.
			if len(perms) != len(permission.Codes()) {
				return nil, apierror.Conflict("no_last_admin", "cannot remove permissions from the admin role")
			}
		} else {
			if len(perms) == 0 {
				return nil, apierror.Invalid("permissions_required", "at least one valid permission is required")
			}
			role.Permissions = perms
		}
	}

	if err := s.roles.Update(ctx, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("duplicate_role", "a role with this name already exists")
		}
		return nil, err
	}
	s.invalidateCache(ctx, tenantID, role.ID)
	resp := roleToResponse(role)
	return &resp, nil
}

func (s *roleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	role, err := s.findRole(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if role.IsAdmin {
		return apierror.Conflict("cannot_delete_admin_role", "the admin role cannot be deleted")
	}
	inUse, err := s.accounts.CountByRole(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return apierror.Conflict("role_in_use", "role is assigned to one or more accounts")
	}
	if err := s.roles.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, tenantID, id)
	return nil
}

func (s *roleService) findRole(ctx context.Context, tenantID, id uuid.UUID) (*model.Role, error) {
	role, err := s.roles.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apierror.New(http.StatusNotFound, "role_not_found", "role not found")
	}
	return role, nil
}

// invalidateCache drops the resolver's cached permission set for the role.
// Best effort: a failed delete only delays the change by the cache TTL.
func (s *roleService) invalidateCache(ctx context.Context, tenantID, roleID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, rolePermCacheKey(tenantID, roleID)).Err(); err != nil {
		log.Warn().Err(err).Str("role_id", roleID.String()).Msg("role cache invalidation failed")
	}
}

func roleToResponse(role *model.Role) dto.RoleResponse {
	perms := permission.Normalize(role.Permissions)
	if role.IsAdmin {
		perms = permission.Codes()
	}
	return dto.RoleResponse{
		ID:          role.ID.String(),
		Name:        role.Name,
		Permissions: perms,
		IsAdmin:     role.IsAdmin,
	}
}
