package dto

import "restopos/internal/permission"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// BootstrapRequest creates the first admin account of a tenant. When
// TenantID is omitted a fresh tenant id is generated.
type BootstrapRequest struct {
	TenantID    *string `json:"tenantId" validate:"omitempty,uuid"`
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    string  `json:"password"`
}

type CreateAccountRequest struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email"  validate:"omitempty,email"`
	Password    string  `json:"password"`
	RoleID      *string `json:"roleId" validate:"omitempty,uuid"`
	IsAdmin     bool    `json:"isAdmin"`
}

type UpdateAccountRequest struct {
	DisplayName *string `json:"displayName"`
	Email       *string `json:"email"  validate:"omitempty,email"`
	Password    *string `json:"password"`
	RoleID      *string `json:"roleId" validate:"omitempty,uuid"`
	IsAdmin     *bool   `json:"isAdmin"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AccountResponse struct {
	ID          string  `json:"id"`
	TenantID    string  `json:"tenantId"`
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email"`
	RoleID      *string `json:"roleId"`
	RoleName    *string `json:"roleName,omitempty"`
	IsAdmin     bool    `json:"isAdmin"`
}

type BootstrapResponse struct {
	TenantID             string                  `json:"tenantId"`
	Account              AccountResponse         `json:"account"`
	AdminRoleID          string                  `json:"adminRoleId"`
	AvailablePermissions []permission.Permission `json:"availablePermissions"`
}
