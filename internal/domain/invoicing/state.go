package invoicing

import (
	"fmt"
	"time"

	"invoice_ledger/internal/domain/entities"
)

// IsLocked reports whether the invoice is sent and fully paid.
func IsLocked(inv entities.Invoice) bool {
	return inv.Status == entities.InvoiceStatusSent && IsFullyPaid(inv)
}

// EnsureMutable returns ErrInvoiceLocked for a locked invoice.
func EnsureMutable(inv entities.Invoice) error {
	if IsLocked(inv) {
		return fmt.Errorf("%w: invoice %s", ErrInvoiceLocked, inv.ID)
	}
	return nil
}

// Send moves a draft invoice to sent.
//
// Sending an already sent invoice is a no-op and reports changed=false.
func Send(inv entities.Invoice, now time.Time) (out entities.Invoice, changed bool, err error) {
	if inv.Status == entities.InvoiceStatusSent {
		return inv, false, nil
	}
	if !inv.Total.IsPositive() || !IsFullyPaid(inv) {
		return inv, false, &NotFullyPaidError{Remaining: inv.Total.Sub(TotalPaid(inv))}
	}
	sentAt := now.UTC()
	inv.Status = entities.InvoiceStatusSent
	inv.SentAt = &sentAt
	return inv, true, nil
}
