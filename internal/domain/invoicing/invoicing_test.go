package invoicing

import (
	"errors"
	"testing"
	"time"

	"invoice_ledger/internal/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func invoiceWithTotal(total string, paid ...string) entities.Invoice {
	inv := entities.Invoice{ID: "inv-1", Total: dec(total), Status: entities.InvoiceStatusDraft}
	for i, p := range paid {
		inv.Payments = append(inv.Payments, entities.Payment{ID: string(rune('a' + i)), Amount: dec(p)})
	}
	return inv
}

func TestComputeTotals(t *testing.T) {
	items := []entities.LineItem{
		{Description: "labour", Quantity: dec("2"), UnitRate: dec("100"), TaxRatePercent: dec("10")},
		{Description: "parts", Quantity: dec("3"), UnitRate: dec("0.333"), TaxRatePercent: dec("0")},
	}
	sub, total := ComputeTotals(items)
	assert.True(t, sub.Equal(dec("201.00")), "subtotal %s", sub)
	assert.True(t, total.Equal(dec("221.00")), "total %s", total)
}

func TestValidateLineItems(t *testing.T) {
	valid := entities.LineItem{Description: "x", Quantity: dec("1"), UnitRate: dec("1")}

	cases := []struct {
		name  string
		items []entities.LineItem
		field string
	}{
		{name: "empty", items: nil, field: "line_items"},
		{name: "missing description", items: []entities.LineItem{{Quantity: dec("1")}}, field: "line_items[0].description"},
		{name: "zero quantity", items: []entities.LineItem{valid, {Description: "y", Quantity: dec("0")}}, field: "line_items[1].quantity"},
		{name: "negative rate", items: []entities.LineItem{{Description: "y", Quantity: dec("1"), UnitRate: dec("-1")}}, field: "line_items[0].unit_rate"},
		{name: "tax above 100", items: []entities.LineItem{{Description: "y", Quantity: dec("1"), TaxRatePercent: dec("101")}}, field: "line_items[0].tax_rate_percent"},
		{name: "quantity beyond four places", items: []entities.LineItem{{Description: "y", Quantity: dec("1.00001"), UnitRate: dec("1")}}, field: "line_items[0].quantity"},
		{name: "rate beyond four places", items: []entities.LineItem{{Description: "y", Quantity: dec("1"), UnitRate: dec("33.33335")}}, field: "line_items[0].unit_rate"},
		{name: "tax beyond four places", items: []entities.LineItem{{Description: "y", Quantity: dec("1"), TaxRatePercent: dec("7.12345")}}, field: "line_items[0].tax_rate_percent"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLineItems(tc.items)
			require.ErrorIs(t, err, ErrValidationFailed)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.field, vErr.Field)
		})
	}

	assert.NoError(t, ValidateLineItems([]entities.LineItem{valid}))
	assert.NoError(t, ValidateLineItems([]entities.LineItem{
		{Description: "x", Quantity: dec("1.2500"), UnitRate: dec("0.3333"), TaxRatePercent: dec("7.2500000")},
	}))
}

func TestAppendPayment(t *testing.T) {
	t.Run("rejects non positive amounts", func(t *testing.T) {
		for _, amount := range []string{"0", "-5"} {
			_, err := AppendPayment(invoiceWithTotal("100"), entities.Payment{Amount: dec(amount)})
			assert.ErrorIs(t, err, ErrInvalidPaymentAmount)
		}
	})

	t.Run("rejects overpayment with max acceptable", func(t *testing.T) {
		inv := invoiceWithTotal("100", "95")
		_, err := AppendPayment(inv, entities.Payment{ID: "p", Amount: dec("5.01")})
		require.ErrorIs(t, err, ErrOverpaymentRejected)

		var oErr *OverpaymentError
		require.True(t, errors.As(err, &oErr))
		assert.True(t, oErr.MaxAcceptable.Equal(dec("5")), "max %s", oErr.MaxAcceptable)
		assert.Len(t, inv.Payments, 1)
	})

	t.Run("accepts exact remainder", func(t *testing.T) {
		inv := invoiceWithTotal("100", "95")
		out, err := AppendPayment(inv, entities.Payment{ID: "p", Amount: dec("5.00")})
		require.NoError(t, err)
		assert.Len(t, out.Payments, 2)
		assert.Len(t, inv.Payments, 1, "input ledger must not be modified")
		assert.True(t, TotalPaid(out).Equal(dec("100")))
		assert.True(t, IsFullyPaid(out))
	})

	t.Run("rejects sub cent amounts", func(t *testing.T) {
		for _, amount := range []string{"0.00001", "33.33335", "5.004"} {
			inv := invoiceWithTotal("100")
			out, err := AppendPayment(inv, entities.Payment{Amount: dec(amount)})
			assert.ErrorIs(t, err, ErrInvalidPaymentAmount, amount)
			assert.Empty(t, out.Payments, amount)
		}
	})

	t.Run("accepts trailing zeros", func(t *testing.T) {
		out, err := AppendPayment(invoiceWithTotal("100", "95"), entities.Payment{Amount: dec("5.0000")})
		require.NoError(t, err)
		assert.True(t, IsFullyPaid(out))
	})
}

func TestSend(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("not fully paid reports remaining", func(t *testing.T) {
		_, changed, err := Send(invoiceWithTotal("288", "200"), now)
		require.ErrorIs(t, err, ErrNotFullyPaid)
		assert.False(t, changed)

		var nErr *NotFullyPaidError
		require.True(t, errors.As(err, &nErr))
		assert.Equal(t, "88.00", nErr.Remaining.StringFixed(2))
	})

	t.Run("zero total cannot be sent", func(t *testing.T) {
		_, _, err := Send(invoiceWithTotal("0"), now)
		assert.ErrorIs(t, err, ErrNotFullyPaid)
	})

	t.Run("paid in two installments", func(t *testing.T) {
		out, changed, err := Send(invoiceWithTotal("100", "30", "70"), now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, entities.InvoiceStatusSent, out.Status)
		require.NotNil(t, out.SentAt)
		assert.True(t, out.SentAt.Equal(now))
		assert.True(t, IsLocked(out))
		assert.ErrorIs(t, EnsureMutable(out), ErrInvoiceLocked)
	})

	t.Run("idempotent", func(t *testing.T) {
		first, _, err := Send(invoiceWithTotal("100", "100"), now)
		require.NoError(t, err)

		second, changed, err := Send(first, now.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, changed)
		assert.True(t, second.SentAt.Equal(now))
	})
}

func TestIsLocked(t *testing.T) {
	draftPaid := invoiceWithTotal("100", "100")
	assert.False(t, IsLocked(draftPaid))
	assert.NoError(t, EnsureMutable(draftPaid))

	sentUnpaid := invoiceWithTotal("100", "50")
	sentUnpaid.Status = entities.InvoiceStatusSent
	assert.False(t, IsLocked(sentUnpaid))
}

func TestNextInvoiceNumber(t *testing.T) {
	cases := []struct {
		name     string
		format   entities.NumberFormat
		existing []string
		want     string
	}{
		{name: "numeric empty tenant", format: entities.NumberFormatNumeric, want: "1"},
		{name: "numeric max plus one", format: entities.NumberFormatNumeric, existing: []string{"3", "7", "5"}, want: "8"},
		{name: "numeric ignores non integers", format: entities.NumberFormatNumeric, existing: []string{"2026-0009", "abc", "4"}, want: "5"},
		{name: "numeric no padding", format: entities.NumberFormatNumeric, existing: []string{"0099"}, want: "100"},
		{name: "yearly first of year", format: entities.NumberFormatYearly, existing: []string{"2025-0099"}, want: "2026-0001"},
		{name: "yearly ignores other years", format: entities.NumberFormatYearly, existing: []string{"2026-0001", "2026-0002", "2025-0099"}, want: "2026-0003"},
		{name: "yearly ignores numeric", format: entities.NumberFormatYearly, existing: []string{"42", "2026-0010"}, want: "2026-0011"},
		{name: "yearly grows past padding", format: entities.NumberFormatYearly, existing: []string{"2026-9999"}, want: "2026-10000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextInvoiceNumber(tc.format, 2026, tc.existing)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := NextInvoiceNumber("weekly", 2026, nil)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestParseNumberFormat(t *testing.T) {
	f, err := ParseNumberFormat("")
	require.NoError(t, err)
	assert.Equal(t, entities.NumberFormatNumeric, f)

	f, err = ParseNumberFormat(" Yearly ")
	require.NoError(t, err)
	assert.Equal(t, entities.NumberFormatYearly, f)

	_, err = ParseNumberFormat("weekly")
	assert.ErrorIs(t, err, ErrValidationFailed)
}
