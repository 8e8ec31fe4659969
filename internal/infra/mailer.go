package infra

import (
	"fmt"
	"net/smtp"

	"restopos/internal/config"
	"restopos/internal/model"

	"github.com/jordan-wright/email"
)

// Mailer sends discrepancy alerts over SMTP. It implements
// service.DiscrepancyNotifier.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	alertTo  string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		alertTo:  cfg.AlertEmail,
	}
}

// NotifyDiscrepancy mails the closing summary of a session that closed with
// a non-zero discrepancy.
func (m *Mailer) NotifyDiscrepancy(s *model.CashRegisterSession) error {
	if m.alertTo == "" {
		return nil
	}

	notes := ""
	if s.Notes != nil {
		notes = *s.Notes
	}
	body := fmt.Sprintf(
		"Cash register session %s closed with a discrepancy.\n\n"+
			"Opening amount: $%s\nExpected cash:  $%s\nCounted cash:   $%s\nDiscrepancy:    $%s\n\nNotes: %s\n",
		s.ID, s.OpeningAmount.StringFixed(2), s.ExpectedCash.StringFixed(2),
		s.ClosingAmount.StringFixed(2), s.Discrepancy.StringFixed(2), notes,
	)

	e := email.NewEmail()
	e.From = m.user
	e.To = []string{m.alertTo}
	e.Subject = fmt.Sprintf("Cash discrepancy: $%s (session %s)", s.Discrepancy.StringFixed(2), s.ID)
	e.Text = []byte(body)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
