package invoicing

import (
	"fmt"
	"strings"

	"invoice_ledger/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var tooPrecise = fmt.Sprintf("must have at most %d decimal places", RatePlaces)

// ValidateLineItems checks the fields every line item must satisfy.
func ValidateLineItems(items []entities.LineItem) error {
	if len(items) == 0 {
		return NewValidationError("line_items", "at least one line item is required")
	}
	for i, li := range items {
		field := fmt.Sprintf("line_items[%d]", i)
		if strings.TrimSpace(li.Description) == "" {
			return NewValidationError(field+".description", "is required")
		}
		if !li.Quantity.IsPositive() {
			return NewValidationError(field+".quantity", "must be greater than zero")
		}
		if li.UnitRate.IsNegative() {
			return NewValidationError(field+".unit_rate", "must not be negative")
		}
		if li.TaxRatePercent.IsNegative() || li.TaxRatePercent.GreaterThan(hundred) {
			return NewValidationError(field+".tax_rate_percent", "must be between 0 and 100")
		}
		if !HasAtMostPlaces(li.Quantity, RatePlaces) {
			return NewValidationError(field+".quantity", tooPrecise)
		}
		if !HasAtMostPlaces(li.UnitRate, RatePlaces) {
			return NewValidationError(field+".unit_rate", tooPrecise)
		}
		if !HasAtMostPlaces(li.TaxRatePercent, RatePlaces) {
			return NewValidationError(field+".tax_rate_percent", tooPrecise)
		}
	}
	return nil
}

// ComputeTotals returns subtotal and total for the given line items.
//
// Sums are kept exact and only the two results are rounded, so per-line
// rounding never drifts the total.
func ComputeTotals(items []entities.LineItem) (subtotal, total decimal.Decimal) {
	sub := decimal.Zero
	tax := decimal.Zero
	for _, li := range items {
		amount := li.Quantity.Mul(li.UnitRate)
		sub = sub.Add(amount)
		tax = tax.Add(amount.Mul(li.TaxRatePercent).Div(hundred))
	}
	return RoundMoney(sub), RoundMoney(sub.Add(tax))
}

// ApplyLineItems validates items and stores them with recomputed totals.
func ApplyLineItems(inv entities.Invoice, items []entities.LineItem) (entities.Invoice, error) {
	if err := ValidateLineItems(items); err != nil {
		return inv, err
	}
	inv.LineItems = append([]entities.LineItem(nil), items...)
	inv.Subtotal, inv.Total = ComputeTotals(items)
	return inv, nil
}
