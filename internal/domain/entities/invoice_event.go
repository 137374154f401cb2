package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventTypeInvoiceSent = "invoice.sent"

// InvoiceSentEvent is published after a send has been committed.
//
// Consumers render the invoice document and deliver it to RecipientEmail. Resend is
// true when the invoice was already sent before this call.
type InvoiceSentEvent struct {
	EventID        string          `json:"event_id"`
	Type           string          `json:"type"`
	TenantID       string          `json:"tenant_id"`
	InvoiceID      string          `json:"invoice_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	Total          decimal.Decimal `json:"total"`
	SentAt         time.Time       `json:"sent_at"`
	RecipientEmail string          `json:"recipient_email,omitempty"`
	Resend         bool            `json:"resend"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
