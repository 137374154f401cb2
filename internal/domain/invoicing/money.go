package invoicing

import "github.com/shopspring/decimal"

// Epsilon is the tolerance used by every paid/overpaid comparison.
var Epsilon = decimal.RequireFromString("0.005")

var hundred = decimal.NewFromInt(100)

const (
	// MoneyPlaces is the precision of totals and payment amounts.
	MoneyPlaces = 2
	// RatePlaces is the precision of line item quantities, rates and tax percentages.
	RatePlaces = 4
)

// RoundMoney rounds half away from zero to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// HasAtMostPlaces reports whether d carries no digits beyond the given decimal places.
// Trailing zeros do not count, so 5.000 has two places.
func HasAtMostPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
