package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ticket is an immutable sales record created at checkout, carrying a
// snapshot of its payment breakdown. Tickets are tied to the cash session
// that was open when they were created and are never edited afterwards —
// the cash register only aggregates over them.
type Ticket struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number    int64           `gorm:"not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cash      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Card      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Change    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Paid      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}
