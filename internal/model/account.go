package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a tenant-scoped login identity. Exactly one account exists per
// (tenant_id, user_id) pair, enforced by a composite unique index.
// IsAdmin is an explicit capability flag independent of the assigned role:
// admin accounts satisfy every permission check regardless of role contents.
type Account struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_tenant_user,priority:1"`
	UserID       string     `gorm:"not null;uniqueIndex:idx_accounts_tenant_user,priority:2"`
	DisplayName  string     `gorm:"not null"`
	Email        *string
	RoleID       *uuid.UUID `gorm:"type:uuid"`
	Role         *Role      `gorm:"foreignKey:RoleID"`
	IsAdmin      bool       `gorm:"not null;default:false"`
	PasswordHash string     `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
