package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session status values.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// CashRegisterSession brackets a period of sales for reconciliation.
// At most one open session exists per tenant, enforced by a partial unique
// index on (tenant_id) WHERE status = 'open' (see infra.applySchemaPatches).
// ClosingAmount, ExpectedCash and Discrepancy are written together exactly
// once at close time and never mutated afterwards.
type CashRegisterSession struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status        string           `gorm:"type:varchar(10);not null;default:'open'"`
	OpeningAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ClosingAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpectedCash  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Discrepancy = closing − expected; positive means more cash counted
	// than expected.
	Discrepancy *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes       *string
	OpenedBy    uuid.UUID  `gorm:"type:uuid;not null"`
	ClosedBy    *uuid.UUID `gorm:"type:uuid"`
	OpenedAt    time.Time
	ClosedAt    *time.Time
}
