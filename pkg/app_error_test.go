package pkg

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		e := NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
		if e.Error() != "INVOICE_NOT_FOUND: Invoice not found" {
			t.Fatalf("unexpected message %q", e.Error())
		}
		body := e.ToHTTPError()
		if body.Code != "INVOICE_NOT_FOUND" || body.Details != nil {
			t.Fatalf("unexpected body %+v", body)
		}
	})

	t.Run("wrapped with details", func(t *testing.T) {
		cause := errors.New("db")
		e := NewDomainError("INTERNAL_ERROR", "An internal error occurred", cause, http.StatusInternalServerError).
			WithDetail("invoice_id", "inv-1")
		if !errors.Is(e, cause) {
			t.Fatalf("expected wrapped cause")
		}
		if e.ToHTTPError().Details["invoice_id"] != "inv-1" {
			t.Fatalf("expected detail, got %+v", e.ToHTTPError().Details)
		}
	})
}
