package service

import (
	"context"
	"sort"
	"time"

	"restopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory AccountRepository ──────────────────────────────────────────────

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*model.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*model.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, a *model.Account) error {
	for _, existing := range r.accounts {
		if existing.TenantID == a.TenantID && existing.UserID == a.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Account, error) {
	a, ok := r.accounts[id]
	if !ok || a.TenantID != tenantID {
		return nil, nil
	}
	return a, nil
}

func (r *fakeAccountRepo) FindByLogin(_ context.Context, tenantID uuid.UUID, userID string) (*model.Account, error) {
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.UserID == userID {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) List(_ context.Context, tenantID uuid.UUID) ([]model.Account, error) {
	var out []model.Account
	for _, a := range r.accounts {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, a *model.Account) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	if a, ok := r.accounts[id]; ok && a.TenantID == tenantID {
		delete(r.accounts, id)
	}
	return nil
}

func (r *fakeAccountRepo) CountAdmins(_ context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.IsAdmin {
			n++
		}
	}
	return n, nil
}

func (r *fakeAccountRepo) CountByRole(_ context.Context, tenantID, roleID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.RoleID != nil && *a.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

// ── In-memory RoleRepository ─────────────────────────────────────────────────

type fakeRoleRepo struct {
	roles map[uuid.UUID]*model.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[uuid.UUID]*model.Role)}
}

func (r *fakeRoleRepo) Create(_ context.Context, role *model.Role) error {
	for _, existing := range r.roles {
		if existing.TenantID == role.TenantID && existing.Name == role.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Role, error) {
	role, ok := r.roles[id]
	if !ok || role.TenantID != tenantID {
		return nil, nil
	}
	return role, nil
}

func (r *fakeRoleRepo) FindByName(_ context.Context, tenantID uuid.UUID, name string) (*model.Role, error) {
	for _, role := range r.roles {
		if role.TenantID == tenantID && role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (r *fakeRoleRepo) FindAdminRole(_ context.Context, tenantID uuid.UUID) (*model.Role, error) {
	for _, role := range r.roles {
		if role.TenantID == tenantID && role.IsAdmin {
			return role, nil
		}
	}
	return nil, nil
}

func (r *fakeRoleRepo) List(_ context.Context, tenantID uuid.UUID) ([]model.Role, error) {
	var out []model.Role
	for _, role := range r.roles {
		if role.TenantID == tenantID {
			out = append(out, *role)
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) Update(_ context.Context, role *model.Role) error {
	for _, existing := range r.roles {
		if existing.TenantID == role.TenantID && existing.Name == role.Name && existing.ID != role.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	if role, ok := r.roles[id]; ok && role.TenantID == tenantID {
		delete(r.roles, id)
	}
	return nil
}

// ── In-memory CashSessionRepository ──────────────────────────────────────────

// fakeSessionRepo mimics the partial unique index: creating a second open
// session for the same tenant fails with gorm.ErrDuplicatedKey.
type fakeSessionRepo struct {
	sessions map[uuid.UUID]*model.CashRegisterSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.CashRegisterSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *model.CashRegisterSession) error {
	if s.Status == model.SessionOpen {
		for _, existing := range r.sessions {
			if existing.TenantID == s.TenantID && existing.Status == model.SessionOpen {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) FindOpenByTenant(_ context.Context, tenantID uuid.UUID) (*model.CashRegisterSession, error) {
	for _, s := range r.sessions {
		if s.TenantID == tenantID && s.Status == model.SessionOpen {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.CashRegisterSession, error) {
	s, ok := r.sessions[id]
	if !ok || s.TenantID != tenantID {
		return nil, nil
	}
	return s, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *model.CashRegisterSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) ListClosed(_ context.Context, tenantID uuid.UUID, page, limit int) ([]model.CashRegisterSession, int64, error) {
	var all []model.CashRegisterSession
	for _, s := range r.sessions {
		if s.TenantID == tenantID && s.Status == model.SessionClosed {
			all = append(all, *s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ClosedAt.After(*all[j].ClosedAt) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// ── In-memory TicketRepository ───────────────────────────────────────────────

type fakeTicketRepo struct {
	tickets []model.Ticket
}

func (r *fakeTicketRepo) Create(_ context.Context, t *model.Ticket) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tickets = append(r.tickets, *t)
	return nil
}

func (r *fakeTicketRepo) ListBySession(_ context.Context, tenantID, sessionID uuid.UUID) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range r.tickets {
		if t.TenantID == tenantID && t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) ListByDateRange(_ context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range r.tickets {
		if t.TenantID == tenantID && !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ── Notifier spy ─────────────────────────────────────────────────────────────

type spyNotifier struct {
	notified []*model.CashRegisterSession
	err      error
}

func (n *spyNotifier) NotifyDiscrepancy(s *model.CashRegisterSession) error {
	n.notified = append(n.notified, s)
	return n.err
}
