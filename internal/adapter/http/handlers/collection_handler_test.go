package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"invoice_ledger/internal/adapter/http/handlers/mocks"
	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/domain/invoicing"
	"invoice_ledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newCollectionRouter(h *CollectionHandler) *gin.Engine {
	r := gin.New()
	r.POST("/v1/invoices/:id/payments/mercadopago", h.CollectWithMercadoPago)
	return r
}

func TestCollectionHandler_CollectWithMercadoPago(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const path = "/v1/invoices/inv-1/payments/mercadopago"

	t.Run("invalid json outside mock mode", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewCollectionHandler(mocks.NewMockICollectionUseCase(ctrl), false)

		w := doRequest(newCollectionRouter(h), http.MethodPost, path, "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid json in mock mode falls back to empty payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICollectionUseCase(ctrl)
		h := NewCollectionHandler(uc, true)

		uc.EXPECT().CollectWithMercadoPago(gomock.Any(), "t1", "inv-1", "u1", json.RawMessage("{}")).Return(sampleInvoice(), nil)

		w := doRequest(newCollectionRouter(h), http.MethodPost, path, "{")
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("unwraps mp_payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICollectionUseCase(ctrl)
		h := NewCollectionHandler(uc, false)

		uc.EXPECT().CollectWithMercadoPago(gomock.Any(), "t1", "inv-1", "u1", json.RawMessage(`{"payment_method_id":"pix"}`)).Return(sampleInvoice(), nil)

		w := doRequest(newCollectionRouter(h), http.MethodPost, path, `{"mp_payload":{"payment_method_id":"pix"}}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("declined", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICollectionUseCase(ctrl)
		h := NewCollectionHandler(uc, false)

		uc.EXPECT().CollectWithMercadoPago(gomock.Any(), "t1", "inv-1", "u1", gomock.Any()).
			Return(entities.Invoice{}, fmt.Errorf("%w: status rejected", usecase.ErrPaymentDeclined))

		w := doRequest(newCollectionRouter(h), http.MethodPost, path, `{}`)
		if w.Code != http.StatusPaymentRequired {
			t.Fatalf("expected 402, got %d", w.Code)
		}
	})

	t.Run("ledger errors fall through to invoice mapping", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICollectionUseCase(ctrl)
		h := NewCollectionHandler(uc, false)

		uc.EXPECT().CollectWithMercadoPago(gomock.Any(), "t1", "inv-1", "u1", gomock.Any()).
			Return(entities.Invoice{}, &invoicing.OverpaymentError{Attempted: decimal.NewFromInt(150), MaxAcceptable: decimal.NewFromInt(100)})

		w := doRequest(newCollectionRouter(h), http.MethodPost, path, `{"transaction_amount":150}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
	})

	t.Run("provider unauthorized", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICollectionUseCase(ctrl)
		h := NewCollectionHandler(uc, false)

		uc.EXPECT().CollectWithMercadoPago(gomock.Any(), "t1", "inv-1", "u1", gomock.Any()).
			Return(entities.Invoice{}, usecase.ErrPaymentGatewayUnauthorized)

		w := doRequest(newCollectionRouter(h), http.MethodPost, path, `{}`)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("internal error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICollectionUseCase(ctrl)
		h := NewCollectionHandler(uc, false)

		uc.EXPECT().CollectWithMercadoPago(gomock.Any(), "t1", "inv-1", "u1", gomock.Any()).
			Return(entities.Invoice{}, errors.New("boom"))

		w := doRequest(newCollectionRouter(h), http.MethodPost, path, `{}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}
