package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/domain/invoicing"
	"invoice_ledger/internal/usecase/interfaces"
)

type documentLine struct {
	Description    string `json:"description"`
	Quantity       string `json:"quantity"`
	UnitRate       string `json:"unit_rate"`
	TaxRatePercent string `json:"tax_rate_percent"`
}

type document struct {
	InvoiceNumber string         `json:"invoice_number"`
	Status        string         `json:"status"`
	SentAt        string         `json:"sent_at,omitempty"`
	Lines         []documentLine `json:"lines"`
	Subtotal      string         `json:"subtotal"`
	Total         string         `json:"total"`
	TotalPaid     string         `json:"total_paid"`
	BalanceDue    string         `json:"balance_due"`
}

// JSONDocumentRenderer renders a machine-readable invoice document. It stands in
// for the PDF service, which owns layout and branding.
type JSONDocumentRenderer struct{}

var _ interfaces.IDocumentRenderer = JSONDocumentRenderer{}

func (JSONDocumentRenderer) Render(_ context.Context, inv entities.Invoice) (interfaces.Document, error) {
	doc := document{
		InvoiceNumber: inv.InvoiceNumber,
		Status:        string(inv.Status),
		Lines:         make([]documentLine, 0, len(inv.LineItems)),
		Subtotal:      inv.Subtotal.StringFixed(2),
		Total:         inv.Total.StringFixed(2),
		TotalPaid:     invoicing.TotalPaid(inv).StringFixed(2),
		BalanceDue:    invoicing.Remaining(inv).StringFixed(2),
	}
	if inv.SentAt != nil {
		doc.SentAt = inv.SentAt.UTC().Format("2006-01-02")
	}
	for _, li := range inv.LineItems {
		doc.Lines = append(doc.Lines, documentLine{
			Description:    li.Description,
			Quantity:       li.Quantity.String(),
			UnitRate:       li.UnitRate.StringFixed(2),
			TaxRatePercent: li.TaxRatePercent.String(),
		})
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return interfaces.Document{}, err
	}
	return interfaces.Document{
		FileName:    fmt.Sprintf("invoice-%s.json", inv.InvoiceNumber),
		ContentType: "application/json",
		Content:     b,
	}, nil
}
