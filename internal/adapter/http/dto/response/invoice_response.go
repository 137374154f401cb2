package response

import (
	"time"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/domain/invoicing"
	"invoice_ledger/internal/usecase"
)

type LineItemResponse struct {
	Description    string `json:"description"`
	Quantity       string `json:"quantity"`
	UnitRate       string `json:"unit_rate"`
	TaxRatePercent string `json:"tax_rate_percent"`
}

type PaymentResponse struct {
	ID                string    `json:"id"`
	Amount            string    `json:"amount"`
	Date              time.Time `json:"date"`
	Method            string    `json:"method"`
	Note              string    `json:"note,omitempty"`
	ProviderPaymentID string    `json:"provider_payment_id,omitempty"`
	CreatedBy         string    `json:"created_by,omitempty"`
}

// InvoiceResponse amounts are decimal strings with two places. total_paid and
// balance_due are always derived from the payments ledger.
type InvoiceResponse struct {
	ID            string             `json:"id"`
	TenantID      string             `json:"tenant_id"`
	InvoiceNumber string             `json:"invoice_number"`
	ClientID      string             `json:"client_id,omitempty"`
	SiteID        string             `json:"site_id,omitempty"`
	Status        string             `json:"status"`
	LineItems     []LineItemResponse `json:"line_items"`
	Subtotal      string             `json:"subtotal"`
	Total         string             `json:"total"`
	TotalPaid     string             `json:"total_paid"`
	BalanceDue    string             `json:"balance_due"`
	Locked        bool               `json:"locked"`
	Payments      []PaymentResponse  `json:"payments"`
	SentAt        *time.Time         `json:"sent_at,omitempty"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	CreatedBy     string             `json:"created_by,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Version       int64              `json:"version"`
}

type SendInvoiceResponse struct {
	Invoice               InvoiceResponse `json:"invoice"`
	NotificationAttempted bool            `json:"notification_attempted"`
	NotifiedAddress       string          `json:"notified_address,omitempty"`
}

func FromInvoice(inv entities.Invoice) InvoiceResponse {
	lines := make([]LineItemResponse, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		lines = append(lines, LineItemResponse{
			Description:    li.Description,
			Quantity:       li.Quantity.String(),
			UnitRate:       li.UnitRate.String(),
			TaxRatePercent: li.TaxRatePercent.String(),
		})
	}
	payments := make([]PaymentResponse, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		payments = append(payments, PaymentResponse{
			ID:                p.ID,
			Amount:            p.Amount.StringFixed(2),
			Date:              p.Date,
			Method:            string(p.Method),
			Note:              p.Note,
			ProviderPaymentID: p.ProviderPaymentID,
			CreatedBy:         p.CreatedBy,
		})
	}

	return InvoiceResponse{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID,
		SiteID:        inv.SiteID,
		Status:        string(inv.Status),
		LineItems:     lines,
		Subtotal:      inv.Subtotal.StringFixed(2),
		Total:         inv.Total.StringFixed(2),
		TotalPaid:     invoicing.TotalPaid(inv).StringFixed(2),
		BalanceDue:    invoicing.Remaining(inv).StringFixed(2),
		Locked:        invoicing.IsLocked(inv),
		Payments:      payments,
		SentAt:        inv.SentAt,
		DueDate:       inv.DueDate,
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Version:       inv.Version,
	}
}

func FromSendResult(res usecase.SendResult) SendInvoiceResponse {
	return SendInvoiceResponse{
		Invoice:               FromInvoice(res.Invoice),
		NotificationAttempted: res.NotificationAttempted,
		NotifiedAddress:       res.NotifiedAddress,
	}
}
