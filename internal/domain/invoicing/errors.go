package invoicing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrNotFound             = errors.New("invoice not found")
	ErrRetryExhausted       = errors.New("retry exhausted, try again later")
	ErrInvalidPaymentAmount = errors.New("payment amount must be greater than zero")
	ErrOverpaymentRejected  = errors.New("payment exceeds invoice balance")
	ErrNotFullyPaid         = errors.New("invoice is not fully paid")
	ErrInvoiceLocked        = errors.New("invoice is sent and fully paid")
)

// ValidationError describes which input was rejected. It matches ErrValidationFailed.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidationFailed, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidationFailed, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// OverpaymentError carries the largest amount the ledger would still accept.
type OverpaymentError struct {
	Attempted     decimal.Decimal
	MaxAcceptable decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("%s: attempted %s, max acceptable %s", ErrOverpaymentRejected, e.Attempted.StringFixed(2), e.MaxAcceptable.StringFixed(2))
}

func (e *OverpaymentError) Unwrap() error {
	return ErrOverpaymentRejected
}

// NotFullyPaidError carries the outstanding balance that blocks a send.
type NotFullyPaidError struct {
	Remaining decimal.Decimal
}

func (e *NotFullyPaidError) Error() string {
	return fmt.Sprintf("%s: remaining %s", ErrNotFullyPaid, e.Remaining.StringFixed(2))
}

func (e *NotFullyPaidError) Unwrap() error {
	return ErrNotFullyPaid
}
