package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenRegisterRequest struct {
	OpeningAmount decimal.Decimal `json:"openingAmount"`
	Notes         *string         `json:"notes"`
}

// CloseRegisterRequest uses a pointer so an absent closingAmount is
// distinguishable from an explicit zero.
type CloseRegisterRequest struct {
	ClosingAmount *decimal.Decimal `json:"closingAmount"`
	Notes         *string          `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessionResponse struct {
	ID            string           `json:"id"`
	Status        string           `json:"status"`
	OpeningAmount decimal.Decimal  `json:"openingAmount"`
	ClosingAmount *decimal.Decimal `json:"closingAmount"`
	ExpectedCash  *decimal.Decimal `json:"expectedCash"`
	Discrepancy   *decimal.Decimal `json:"discrepancy"`
	Notes         *string          `json:"notes"`
	OpenedBy      string           `json:"openedBy"`
	ClosedBy      *string          `json:"closedBy"`
	OpenedAt      string           `json:"openedAt"`
	ClosedAt      *string          `json:"closedAt"`
}

// RegisterStatusResponse is returned by open, close and the status query.
// The advisory fields are only present while a session is open; they are
// computed live against tickets recorded so far and never persisted.
type RegisterStatusResponse struct {
	Open         bool             `json:"open"`
	Session      *SessionResponse `json:"session"`
	ExpectedCash *decimal.Decimal `json:"expectedCash,omitempty"`
	NetCash      *decimal.Decimal `json:"netCash,omitempty"`
	TicketCount  *int             `json:"ticketCount,omitempty"`
}

// SessionListResponse pages through a tenant's closed sessions, newest first.
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type CloseoutTicket struct {
	ID        string          `json:"id"`
	SessionID string          `json:"sessionId"`
	Number    int64           `json:"number"`
	Total     decimal.Decimal `json:"total"`
	Cash      decimal.Decimal `json:"cash"`
	Card      decimal.Decimal `json:"card"`
	Change    decimal.Decimal `json:"change"`
	Paid      decimal.Decimal `json:"paid"`
	CreatedAt string          `json:"createdAt"`
}

// CloseoutReportResponse aggregates ticket payments over a date range.
type CloseoutReportResponse struct {
	From        string           `json:"from"`
	To          string           `json:"to"`
	TicketCount int              `json:"ticketCount"`
	TotalCash   decimal.Decimal  `json:"totalCash"`
	TotalCard   decimal.Decimal  `json:"totalCard"`
	TotalChange decimal.Decimal  `json:"totalChange"`
	TotalPaid   decimal.Decimal  `json:"totalPaid"`
	NetCash     decimal.Decimal  `json:"netCash"`
	Tickets     []CloseoutTicket `json:"tickets"`
}
