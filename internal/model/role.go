package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Role is a tenant-scoped named permission bundle. Permissions holds
// normalized catalog codes as a JSONB array. The built-in admin role
// (IsAdmin=true) always carries the full catalog and cannot be deleted.
type Role struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_roles_tenant_name,priority:1"`
	Name        string                      `gorm:"not null;uniqueIndex:idx_roles_tenant_name,priority:2"`
	Permissions datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	IsAdmin     bool                        `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
