package repository

import (
	"context"
	"errors"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, a *model.Account) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Account, error)
	FindByLogin(ctx context.Context, tenantID uuid.UUID, userID string) (*model.Account, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Account, error)
	Update(ctx context.Context, a *model.Account) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CountAdmins(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountByRole(ctx context.Context, tenantID, roleID uuid.UUID) (int64, error)
}

type accountRepo struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &accountRepo{db: db} }

func (r *accountRepo) Create(ctx context.Context, a *model.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accountRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *accountRepo) FindByLogin(ctx context.Context, tenantID uuid.UUID, userID string) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).Preload("Role").
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *accountRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.WithContext(ctx).Preload("Role").
		Where("tenant_id = ?", tenantID).
		Order("user_id ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *accountRepo) Update(ctx context.Context, a *model.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *accountRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&model.Account{}).Error
}

func (r *accountRepo) CountAdmins(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("tenant_id = ? AND is_admin = true", tenantID).
		Count(&n).Error
	return n, err
}

func (r *accountRepo) CountByRole(ctx context.Context, tenantID, roleID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("tenant_id = ? AND role_id = ?", tenantID, roleID).
		Count(&n).Error
	return n, err
}
