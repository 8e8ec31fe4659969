package dto

import "restopos/internal/permission"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type UpdateRoleRequest struct {
	Name        *string  `json:"name"`
	Permissions []string `json:"permissions"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	IsAdmin     bool     `json:"isAdmin"`
}

// RoleListResponse carries the catalog alongside the roles so role editors
// can render checkboxes without a second request.
type RoleListResponse struct {
	Roles                []RoleResponse          `json:"roles"`
	AvailablePermissions []permission.Permission `json:"availablePermissions"`
}
