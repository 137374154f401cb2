package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle of an invoice.
//
// Transitions are one-way: draft -> sent. A sent invoice whose ledger covers the
// total is locked and can no longer be updated, paid or destroyed.

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
)

// NumberFormat selects how invoice numbers are allocated for a tenant.
type NumberFormat string

const (
	// NumberFormatNumeric yields "1", "2", ... with no padding.
	NumberFormatNumeric NumberFormat = "numeric"
	// NumberFormatYearly yields "{year}-0001", restarting every calendar year.
	NumberFormatYearly NumberFormat = "yearly"
)

type LineItem struct {
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitRate       decimal.Decimal `json:"unit_rate"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
}

// Invoice is the aggregate root of the billing core.
//
// Storage model:
//   - DynamoDB: PK id, payments embedded as a list attribute, number claims kept in
//     a separate (tenant_id, invoice_number) table.
//   - Postgres: invoices, invoice_line_items, invoice_payments with a unique
//     (tenant_id, invoice_number) index.
//
// Monetary representation:
//   - Subtotal and Total are derived from LineItems and rounded to cents.
//   - There is no stored "paid" amount; it is always summed from Payments.
type Invoice struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientID      string          `json:"client_id,omitempty"`
	SiteID        string          `json:"site_id,omitempty"`
	LineItems     []LineItem      `json:"line_items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
	Status        InvoiceStatus   `json:"status"`
	SentAt        *time.Time      `json:"sent_at,omitempty"`
	Payments      []Payment       `json:"payments"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty"`

	// Version is bumped on every successful write and guards concurrent writers.
	Version int64 `json:"version"`
}

func (i Invoice) IsDeleted() bool {
	return i.DeletedAt != nil
}
