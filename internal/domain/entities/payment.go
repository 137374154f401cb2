package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is a free-form label; the values below are the ones the service emits itself.
type PaymentMethod string

const (
	PaymentMethodManual      PaymentMethod = "manual"
	PaymentMethodMercadoPago PaymentMethod = "mercadopago"
)

// Payment is one immutable entry of an invoice ledger.
//
// ProviderPaymentID keeps the external id when the payment was collected through
// a payment provider, for reconciliation.
type Payment struct {
	ID                string          `json:"id"`
	Amount            decimal.Decimal `json:"amount"`
	Date              time.Time       `json:"date"`
	Method            PaymentMethod   `json:"method,omitempty"`
	Note              string          `json:"note,omitempty"`
	ProviderPaymentID string          `json:"provider_payment_id,omitempty"`
	CreatedBy         string          `json:"created_by,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
