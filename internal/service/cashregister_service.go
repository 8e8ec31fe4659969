package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// DiscrepancyNotifier is implemented by infra.Mailer. Notification is a
// synchronous best-effort side effect of a successful close — a send
// failure never rolls back the close.
type DiscrepancyNotifier interface {
	NotifyDiscrepancy(session *model.CashRegisterSession) error
}

type CashRegisterService interface {
	Open(ctx context.Context, tenantID, accountID uuid.UUID, req dto.OpenRegisterRequest) (*dto.RegisterStatusResponse, error)
	Close(ctx context.Context, tenantID, accountID uuid.UUID, req dto.CloseRegisterRequest) (*dto.RegisterStatusResponse, error)
	Status(ctx context.Context, tenantID uuid.UUID) (*dto.RegisterStatusResponse, error)
	// History pages through closed sessions, most recently closed first.
	History(ctx context.Context, tenantID uuid.UUID, page, limit int) (*dto.SessionListResponse, error)
	// Closeout aggregates ticket payments over an inclusive date range.
	Closeout(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*dto.CloseoutReportResponse, error)
}

type cashRegisterService struct {
	sessions repository.CashSessionRepository
	tickets  repository.TicketRepository
	notifier DiscrepancyNotifier // nil when SMTP is not configured
}

func NewCashRegisterService(sessions repository.CashSessionRepository, tickets repository.TicketRepository, notifier DiscrepancyNotifier) CashRegisterService {
	return &cashRegisterService{sessions: sessions, tickets: tickets, notifier: notifier}
}

func (s *cashRegisterService) Open(ctx context.Context, tenantID, accountID uuid.UUID, req dto.OpenRegisterRequest) (*dto.RegisterStatusResponse, error) {
	if req.OpeningAmount.IsNegative() {
		return nil, apierror.Invalid("invalid_amount", "openingAmount must not be negative")
	}

	existing, err := s.sessions.FindOpenByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierror.Conflict("cash_register_open", "a cash register session is already open")
	}

	session := &model.CashRegisterSession{
		TenantID:      tenantID,
		Status:        model.SessionOpen,
		OpeningAmount: req.OpeningAmount.Round(2),
		Notes:         req.Notes,
		OpenedBy:      accountID,
		OpenedAt:      time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		// The partial unique index on (tenant_id) WHERE status='open'
		// closes the check-then-insert race between concurrent opens.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("cash_register_open", "a cash register session is already open")
		}
		return nil, err
	}

	return s.liveStatus(ctx, session)
}

func (s *cashRegisterService) Close(ctx context.Context, tenantID, accountID uuid.UUID, req dto.CloseRegisterRequest) (*dto.RegisterStatusResponse, error) {
	session, err := s.sessions.FindOpenByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apierror.Conflict("cash_register_closed", "no open cash register session")
	}
	if req.ClosingAmount == nil {
		return nil, apierror.Invalid("closing_amount_required", "closingAmount is required")
	}
	if req.ClosingAmount.IsNegative() {
		return nil, apierror.Invalid("invalid_amount", "closingAmount must not be negative")
	}

	tickets, err := s.tickets.ListBySession(ctx, tenantID, session.ID)
	if err != nil {
		return nil, err
	}
	closing := req.ClosingAmount.Round(2)
	_, expected := reconcile(session.OpeningAmount, tickets)
	discrepancy := closing.Sub(expected).Round(2)

	// A non-zero cent discrepancy needs an explanation. The computed values
	// ride on the 409 so the client can display them without re-querying.
	if !discrepancy.IsZero() && (req.Notes == nil || strings.TrimSpace(*req.Notes) == "") {
		return nil, apierror.Conflict("closing_reason_required", "a non-zero discrepancy requires an explanation").
			With("expectedCash", expected).
			With("discrepancy", discrepancy)
	}

	now := time.Now()
	session.Status = model.SessionClosed
	session.ClosingAmount = &closing
	session.ExpectedCash = &expected
	session.Discrepancy = &discrepancy
	session.ClosedBy = &accountID
	session.ClosedAt = &now
	if req.Notes != nil && strings.TrimSpace(*req.Notes) != "" {
		session.Notes = req.Notes
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	if s.notifier != nil && !discrepancy.IsZero() {
		if err := s.notifier.NotifyDiscrepancy(session); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("discrepancy alert mail failed")
		}
	}

	return &dto.RegisterStatusResponse{Open: false, Session: sessionToResponse(session)}, nil
}

func (s *cashRegisterService) Status(ctx context.Context, tenantID uuid.UUID) (*dto.RegisterStatusResponse, error) {
	session, err := s.sessions.FindOpenByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &dto.RegisterStatusResponse{Open: false, Session: nil}, nil
	}
	return s.liveStatus(ctx, session)
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (s *cashRegisterService) History(ctx context.Context, tenantID uuid.UUID, page, limit int) (*dto.SessionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	sessions, total, err := s.sessions.ListClosed(ctx, tenantID, page, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.SessionListResponse{
		Sessions: make([]dto.SessionResponse, len(sessions)),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}
	for i := range sessions {
		resp.Sessions[i] = *sessionToResponse(&sessions[i])
	}
	return resp, nil
}

func (s *cashRegisterService) Closeout(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*dto.CloseoutReportResponse, error) {
	tickets, err := s.tickets.ListByDateRange(ctx, tenantID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	report := &dto.CloseoutReportResponse{
		From:        from.Format(dateLayout),
		To:          to.Format(dateLayout),
		TicketCount: len(tickets),
		TotalCash:   decimal.Zero,
		TotalCard:   decimal.Zero,
		TotalChange: decimal.Zero,
		TotalPaid:   decimal.Zero,
		Tickets:     make([]dto.CloseoutTicket, len(tickets)),
	}
	for i, t := range tickets {
		report.TotalCash = report.TotalCash.Add(t.Cash)
		report.TotalCard = report.TotalCard.Add(t.Card)
		report.TotalChange = report.TotalChange.Add(t.Change)
		report.TotalPaid = report.TotalPaid.Add(t.Paid)
		report.Tickets[i] = dto.CloseoutTicket{
			ID:        t.ID.String(),
			SessionID: t.SessionID.String(),
			Number:    t.Number,
			Total:     t.Total,
			Cash:      t.Cash,
			Card:      t.Card,
			Change:    t.Change,
			Paid:      t.Paid,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		}
	}
	report.TotalCash = report.TotalCash.Round(2)
	report.TotalCard = report.TotalCard.Round(2)
	report.TotalChange = report.TotalChange.Round(2)
	report.TotalPaid = report.TotalPaid.Round(2)
	report.NetCash = report.TotalCash.Sub(report.TotalChange).Round(2)
	return report, nil
}

// liveStatus builds the advisory view of an open session: expectedCash,
// netCash and ticketCount computed against tickets recorded so far. These
// values are never persisted — only Close finalizes them.
func (s *cashRegisterService) liveStatus(ctx context.Context, session *model.CashRegisterSession) (*dto.RegisterStatusResponse, error) {
	tickets, err := s.tickets.ListBySession(ctx, session.TenantID, session.ID)
	if err != nil {
		return nil, err
	}
	netCash, expected := reconcile(session.OpeningAmount, tickets)
	count := len(tickets)
	return &dto.RegisterStatusResponse{
		Open:         true,
		Session:      sessionToResponse(session),
		ExpectedCash: &expected,
		NetCash:      &netCash,
		TicketCount:  &count,
	}, nil
}

// reconcile sums the cash and change snapshots of every ticket tied to the
// session: netCash = Σcash − Σchange, expectedCash = opening + netCash.
// Amounts are re-rounded to cents after every combination; decimal's Round
// is round half away from zero.
func reconcile(opening decimal.Decimal, tickets []model.Ticket) (netCash, expectedCash decimal.Decimal) {
	cash, change := decimal.Zero, decimal.Zero
	for _, t := range tickets {
		cash = cash.Add(t.Cash)
		change = change.Add(t.Change)
	}
	netCash = cash.Sub(change).Round(2)
	expectedCash = opening.Add(netCash).Round(2)
	return netCash, expectedCash
}

func sessionToResponse(s *model.CashRegisterSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:            s.ID.String(),
		Status:        s.Status,
		OpeningAmount: s.OpeningAmount,
		ClosingAmount: s.ClosingAmount,
		ExpectedCash:  s.ExpectedCash,
		Discrepancy:   s.Discrepancy,
		Notes:         s.Notes,
		OpenedBy:      s.OpenedBy.String(),
		OpenedAt:      s.OpenedAt.Format(time.RFC3339),
	}
	if s.ClosedBy != nil {
		id := s.ClosedBy.String()
		resp.ClosedBy = &id
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
