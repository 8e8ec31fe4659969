package repository

import (
	"context"
	"time"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketRepository is the read side of the checkout flow. The cash register
// only aggregates over tickets; Create exists for seeding and tests — there
// is no HTTP surface that writes tickets here.
type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) error
	ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]model.Ticket, error)
	ListByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Ticket, error)
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepo{db: db} }

func (r *ticketRepo) Create(ctx context.Context, t *model.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ticketRepo) ListBySession(ctx context.Context, tenantID, sessionID uuid.UUID) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		Order("created_at ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepo) ListByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from, to).
		Order("created_at ASC").
		Find(&tickets).Error
	return tickets, err
}
