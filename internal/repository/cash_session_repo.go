package repository

import (
	"context"
	"errors"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashSessionRepository interface {
	Create(ctx context.Context, s *model.CashRegisterSession) error
	FindOpenByTenant(ctx context.Context, tenantID uuid.UUID) (*model.CashRegisterSession, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.CashRegisterSession, error)
	Update(ctx context.Context, s *model.CashRegisterSession) error
	ListClosed(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.CashRegisterSession, int64, error)
}

type cashSessionRepo struct{ db *gorm.DB }

func NewCashSessionRepository(db *gorm.DB) CashSessionRepository { return &cashSessionRepo{db: db} }

func (r *cashSessionRepo) Create(ctx context.Context, s *model.CashRegisterSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cashSessionRepo) FindOpenByTenant(ctx context.Context, tenantID uuid.UUID) (*model.CashRegisterSession, error) {
	var s model.CashRegisterSession
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, model.SessionOpen).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *cashSessionRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.CashRegisterSession, error) {
	var s model.CashRegisterSession
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *cashSessionRepo) Update(ctx context.Context, s *model.CashRegisterSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cashSessionRepo) ListClosed(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.CashRegisterSession, int64, error) {
	var sessions []model.CashRegisterSession
	var total int64
	q := r.db.WithContext(ctx).Model(&model.CashRegisterSession{}).
		Where("tenant_id = ? AND status = ?", tenantID, model.SessionClosed)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("closed_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sessions).Error
	return sessions, total, err
}
