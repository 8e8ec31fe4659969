package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest fields are checked in the service so missing fields map to
// the missing_credentials code rather than a generic validation envelope.
type LoginRequest struct {
	TenantID string `json:"tenantId"`
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	Account   AccountResponse `json:"account"`
	ExpiresIn int             `json:"expiresIn"` // seconds
}
