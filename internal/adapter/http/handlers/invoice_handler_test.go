package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoice_ledger/internal/adapter/http/handlers/mocks"
	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/domain/invoicing"
	"invoice_ledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newInvoiceRouter(h *InvoiceHandler) *gin.Engine {
	r := gin.New()
	r.POST("/v1/invoices", h.CreateInvoice)
	r.GET("/v1/invoices/:id", h.GetInvoice)
	r.PATCH("/v1/invoices/:id", h.UpdateInvoice)
	r.DELETE("/v1/invoices/:id", h.DeleteInvoice)
	r.POST("/v1/invoices/batch-delete", h.BatchDeleteInvoices)
	r.POST("/v1/invoices/:id/payments", h.RecordPayment)
	r.POST("/v1/invoices/:id/send", h.SendInvoice)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderTenantID, "t1")
	req.Header.Set(HeaderActorID, "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body %q: %v", w.Body.String(), err)
	}
	return body
}

func sampleInvoice() entities.Invoice {
	return entities.Invoice{
		ID:            "inv-1",
		TenantID:      "t1",
		InvoiceNumber: "8",
		Status:        entities.InvoiceStatusDraft,
		LineItems:     []entities.LineItem{{Description: "labour", Quantity: decimal.NewFromInt(1), UnitRate: decimal.NewFromInt(288), TaxRatePercent: decimal.Zero}},
		Subtotal:      decimal.NewFromInt(288),
		Total:         decimal.NewFromInt(288),
		Payments:      []entities.Payment{{ID: "p-1", Amount: decimal.NewFromInt(200), Date: time.Now().UTC(), Method: entities.PaymentMethodManual}},
		Version:       2,
	}
}

func TestInvoiceHandler_CreateInvoice(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing tenant header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewInvoiceHandler(mocks.NewMockIInvoiceUseCase(ctrl))

		req := httptest.NewRequest(http.MethodPost, "/v1/invoices", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newInvoiceRouter(h).ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewInvoiceHandler(mocks.NewMockIInvoiceUseCase(ctrl))

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().CreateInvoice(gomock.Any(), "t1", gomock.Any()).DoAndReturn(
			func(_ any, _ string, in usecase.CreateInvoiceInput) (entities.Invoice, error) {
				if in.CreatedBy != "u1" || len(in.LineItems) != 1 || !in.LineItems[0].Quantity.Equal(decimal.NewFromInt(1)) {
					t.Fatalf("unexpected input: %+v", in)
				}
				return sampleInvoice(), nil
			},
		)

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices",
			`{"line_items":[{"description":"labour","quantity":1,"unit_rate":"288","tax_rate_percent":0}]}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["total_paid"] != "200.00" || body["balance_due"] != "88.00" || body["invoice_number"] != "8" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("validation error carries field", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().CreateInvoice(gomock.Any(), "t1", gomock.Any()).
			Return(entities.Invoice{}, invoicing.NewValidationError("invoice_number", "already in use"))

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices", `{"invoice_number":"7"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		details, _ := decodeBody(t, w)["details"].(map[string]any)
		if details["field"] != "invoice_number" {
			t.Fatalf("unexpected details: %v", details)
		}
	})

	t.Run("retry exhausted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().CreateInvoice(gomock.Any(), "t1", gomock.Any()).
			Return(entities.Invoice{}, fmt.Errorf("%w: no free invoice number", usecase.ErrRetryExhausted))

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices", `{}`)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_GetInvoice(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().GetInvoice(gomock.Any(), "t1", "missing").Return(entities.Invoice{}, usecase.ErrInvoiceNotFound)

		w := doRequest(newInvoiceRouter(h), http.MethodGet, "/v1/invoices/missing", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().GetInvoice(gomock.Any(), "t1", "inv-1").Return(sampleInvoice(), nil)

		w := doRequest(newInvoiceRouter(h), http.MethodGet, "/v1/invoices/inv-1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_UpdateInvoice(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("locked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().UpdateInvoice(gomock.Any(), "t1", "inv-1", gomock.Any()).
			Return(entities.Invoice{}, fmt.Errorf("%w: invoice inv-1", usecase.ErrInvoiceLocked))

		w := doRequest(newInvoiceRouter(h), http.MethodPatch, "/v1/invoices/inv-1", `{"notes":"x"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if decodeBody(t, w)["code"] != "INVOICE_LOCKED" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("passes partial fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().UpdateInvoice(gomock.Any(), "t1", "inv-1", gomock.Any()).DoAndReturn(
			func(_ any, _, _ string, in usecase.UpdateInvoiceInput) (entities.Invoice, error) {
				if in.Notes == nil || *in.Notes != "x" || in.LineItems != nil || in.ClientID != nil {
					t.Fatalf("unexpected input: %+v", in)
				}
				return sampleInvoice(), nil
			},
		)

		w := doRequest(newInvoiceRouter(h), http.MethodPatch, "/v1/invoices/inv-1", `{"notes":"x"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_RecordPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewInvoiceHandler(mocks.NewMockIInvoiceUseCase(ctrl))

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices/inv-1/payments", `{"note":"cash"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("legacy alias is translated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().RecordPayment(gomock.Any(), "t1", "inv-1", gomock.Any()).DoAndReturn(
			func(_ any, _, _ string, in usecase.PaymentInput) (entities.Invoice, error) {
				if !in.Amount.Equal(decimal.RequireFromString("88")) || in.CreatedBy != "u1" || in.Method != entities.PaymentMethodManual {
					t.Fatalf("unexpected input: %+v", in)
				}
				return sampleInvoice(), nil
			},
		)

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices/inv-1/payments", `{"paidAmount":"88"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("overpayment reports max acceptable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().RecordPayment(gomock.Any(), "t1", "inv-1", gomock.Any()).Return(entities.Invoice{}, &invoicing.OverpaymentError{
			Attempted:     decimal.RequireFromString("5.01"),
			MaxAcceptable: decimal.RequireFromString("5"),
		})

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices/inv-1/payments", `{"amount":5.01}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		body := decodeBody(t, w)
		details, _ := body["details"].(map[string]any)
		if body["code"] != "OVERPAYMENT_REJECTED" || details["max_acceptable_amount"] != "5.00" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("non positive amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().RecordPayment(gomock.Any(), "t1", "inv-1", gomock.Any()).Return(entities.Invoice{}, usecase.ErrInvalidPaymentAmount)

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices/inv-1/payments", `{"amount":0}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_SendInvoice(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not fully paid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().SendInvoice(gomock.Any(), "t1", "inv-1").
			Return(usecase.SendResult{}, &invoicing.NotFullyPaidError{Remaining: decimal.NewFromInt(88)})

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices/inv-1/send", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		details, _ := decodeBody(t, w)["details"].(map[string]any)
		if details["remaining_balance"] != "88.00" {
			t.Fatalf("unexpected details: %v", details)
		}
	})

	t.Run("sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		inv := sampleInvoice()
		inv.Status = entities.InvoiceStatusSent
		uc.EXPECT().SendInvoice(gomock.Any(), "t1", "inv-1").
			Return(usecase.SendResult{Invoice: inv, NotificationAttempted: true, NotifiedAddress: "billing@acme.test"}, nil)

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices/inv-1/send", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["notification_attempted"] != true || body["notified_address"] != "billing@acme.test" {
			t.Fatalf("unexpected body: %v", body)
		}
	})
}

func TestInvoiceHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("single", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().DestroyInvoice(gomock.Any(), "t1", "inv-1").Return(nil)

		w := doRequest(newInvoiceRouter(h), http.MethodDelete, "/v1/invoices/inv-1", "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})

	t.Run("batch with locked invoice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().DestroyInvoices(gomock.Any(), "t1", []string{"a", "b"}).Return(usecase.ErrInvoiceLocked)

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices/batch-delete", `{"ids":["a","b"]}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("batch without ids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewInvoiceHandler(mocks.NewMockIInvoiceUseCase(ctrl))

		w := doRequest(newInvoiceRouter(h), http.MethodPost, "/v1/invoices/batch-delete", `{"ids":[]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unexpected error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		uc.EXPECT().DestroyInvoice(gomock.Any(), "t1", "inv-1").Return(errors.New("boom"))

		w := doRequest(newInvoiceRouter(h), http.MethodDelete, "/v1/invoices/inv-1", "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}
