package invoicing

import (
	"fmt"

	"invoice_ledger/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// TotalPaid sums the ledger. It is the only source of the paid amount.
func TotalPaid(inv entities.Invoice) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range inv.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Remaining is total minus paid, floored at zero.
func Remaining(inv entities.Invoice) decimal.Decimal {
	r := inv.Total.Sub(TotalPaid(inv))
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// IsFullyPaid reports whether the ledger covers the total within Epsilon.
func IsFullyPaid(inv entities.Invoice) bool {
	return TotalPaid(inv).Add(Epsilon).GreaterThanOrEqual(inv.Total)
}

// AppendPayment validates p against the ledger and returns the invoice with p appended.
//
// The input invoice is not modified.
func AppendPayment(inv entities.Invoice, p entities.Payment) (entities.Invoice, error) {
	if !p.Amount.IsPositive() {
		return inv, ErrInvalidPaymentAmount
	}
	if !HasAtMostPlaces(p.Amount, MoneyPlaces) {
		return inv, fmt.Errorf("%w: at most %d decimal places", ErrInvalidPaymentAmount, MoneyPlaces)
	}
	paid := TotalPaid(inv)
	if paid.Add(p.Amount).GreaterThan(inv.Total.Add(Epsilon)) {
		return inv, &OverpaymentError{Attempted: p.Amount, MaxAcceptable: Remaining(inv)}
	}

	payments := make([]entities.Payment, 0, len(inv.Payments)+1)
	payments = append(payments, inv.Payments...)
	inv.Payments = append(payments, p)
	return inv, nil
}
