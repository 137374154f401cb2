package request

import (
	"errors"
	"strings"
	"time"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/usecase"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingPaymentAmount = errors.New("payment amount is required")
	ErrMissingInvoiceIDs    = errors.New("ids are required")
	ErrTooManyInvoiceIDs    = errors.New("too many ids in one batch")
)

// MaxBatchDelete mirrors the use case bound so oversized requests fail before any load.
const MaxBatchDelete = usecase.MaxBatchDelete

type LineItemRequest struct {
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitRate       decimal.Decimal `json:"unit_rate"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
}

type CreateInvoiceRequest struct {
	InvoiceNumber string            `json:"invoice_number"`
	NumberFormat  string            `json:"number_format"`
	ClientID      string            `json:"client_id"`
	SiteID        string            `json:"site_id"`
	LineItems     []LineItemRequest `json:"line_items"`
	DueDate       *time.Time        `json:"due_date"`
	Notes         string            `json:"notes"`
}

func (r CreateInvoiceRequest) ToInput(actor string) usecase.CreateInvoiceInput {
	return usecase.CreateInvoiceInput{
		InvoiceNumber: strings.TrimSpace(r.InvoiceNumber),
		NumberFormat:  entities.NumberFormat(strings.ToLower(strings.TrimSpace(r.NumberFormat))),
		ClientID:      r.ClientID,
		SiteID:        r.SiteID,
		LineItems:     toLineItems(r.LineItems),
		DueDate:       r.DueDate,
		Notes:         r.Notes,
		CreatedBy:     actor,
	}
}

// UpdateInvoiceRequest is a partial update. Absent fields stay unchanged;
// line_items, when present, replaces the whole list.
type UpdateInvoiceRequest struct {
	InvoiceNumber *string           `json:"invoice_number"`
	ClientID      *string           `json:"client_id"`
	SiteID        *string           `json:"site_id"`
	LineItems     []LineItemRequest `json:"line_items"`
	DueDate       *time.Time        `json:"due_date"`
	Notes         *string           `json:"notes"`
}

func (r UpdateInvoiceRequest) ToInput() usecase.UpdateInvoiceInput {
	in := usecase.UpdateInvoiceInput{
		InvoiceNumber: r.InvoiceNumber,
		ClientID:      r.ClientID,
		SiteID:        r.SiteID,
		DueDate:       r.DueDate,
		Notes:         r.Notes,
	}
	if r.LineItems != nil {
		in.LineItems = toLineItems(r.LineItems)
	}
	return in
}

// PaymentRequest accepts the canonical amount field. Older clients send the
// amount as paid, paidAmount or total; those are read only when amount is absent.
type PaymentRequest struct {
	Amount     *decimal.Decimal `json:"amount"`
	Paid       *decimal.Decimal `json:"paid"`
	PaidAmount *decimal.Decimal `json:"paidAmount"`
	Total      *decimal.Decimal `json:"total"`
	Date       *time.Time       `json:"date"`
	Note       string           `json:"note"`
}

func (r PaymentRequest) ResolveAmount() (decimal.Decimal, error) {
	for _, v := range []*decimal.Decimal{r.Amount, r.Paid, r.PaidAmount, r.Total} {
		if v != nil {
			return *v, nil
		}
	}
	return decimal.Zero, ErrMissingPaymentAmount
}

func (r PaymentRequest) ToInput(actor string) (usecase.PaymentInput, error) {
	amount, err := r.ResolveAmount()
	if err != nil {
		return usecase.PaymentInput{}, err
	}
	in := usecase.PaymentInput{
		Amount:    amount,
		Method:    entities.PaymentMethodManual,
		Note:      r.Note,
		CreatedBy: actor,
	}
	if r.Date != nil {
		in.Date = r.Date.UTC()
	}
	return in, nil
}

type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (r BatchDeleteRequest) ResolveIDs() ([]string, error) {
	ids := make([]string, 0, len(r.IDs))
	for _, id := range r.IDs {
		if v := strings.TrimSpace(id); v != "" {
			ids = append(ids, v)
		}
	}
	if len(ids) == 0 {
		return nil, ErrMissingInvoiceIDs
	}
	if len(ids) > MaxBatchDelete {
		return nil, ErrTooManyInvoiceIDs
	}
	return ids, nil
}

func toLineItems(items []LineItemRequest) []entities.LineItem {
	out := make([]entities.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, entities.LineItem{
			Description:    strings.TrimSpace(it.Description),
			Quantity:       it.Quantity,
			UnitRate:       it.UnitRate,
			TaxRatePercent: it.TaxRatePercent,
		})
	}
	return out
}
