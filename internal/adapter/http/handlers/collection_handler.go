package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	response "invoice_ledger/internal/adapter/http/dto/response"
	"invoice_ledger/internal/infrastructure/logger"
	"invoice_ledger/internal/usecase"
	"invoice_ledger/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CollectionHandler handles HTTP requests that charge an invoice through Mercado Pago.

type CollectionHandler struct {
	usecase  usecase.ICollectionUseCase
	mockMode bool
	log      zerolog.Logger
}

func NewCollectionHandler(uc usecase.ICollectionUseCase, mockMode bool) *CollectionHandler {
	return &CollectionHandler{usecase: uc, mockMode: mockMode, log: logger.WithComponent("collection-handler")}
}

// CollectWithMercadoPago godoc
// @Summary      Charge an invoice through Mercado Pago
// @Description  Body is the Mercado Pago payment request, optionally wrapped in mp_payload.
// @Description  transaction_amount defaults to the outstanding balance.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID  header  string  true  "Tenant"
// @Param        id           path    string  true  "Invoice ID"
// @Success      201  {object}  response.InvoiceResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      402  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Router       /invoices/{id}/payments/mercadopago [post]
func (h *CollectionHandler) CollectWithMercadoPago(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	invoiceID := c.Param("id")
	h.log.Info().Str("tenant_id", tenantID).Str("invoice_id", invoiceID).Msg("collect start")

	mpPayload, err := readMPPayload(c)
	if err != nil {
		if h.mockMode {
			h.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("payload invalid in mock mode, using empty payload")
			mpPayload = json.RawMessage("{}")
		} else {
			h.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("collect invalid payload")
			writeError(c, pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest))
			return
		}
	}

	inv, err := h.usecase.CollectWithMercadoPago(c.Request.Context(), tenantID, invoiceID, actorID(c), mpPayload)
	if err != nil {
		h.log.Warn().Err(err).Str("tenant_id", tenantID).Str("invoice_id", invoiceID).Msg("collect failed")
		writeError(c, mapCollectionError(err))
		return
	}
	h.log.Info().Str("tenant_id", tenantID).Str("invoice_id", invoiceID).Msg("collect success")
	c.JSON(http.StatusCreated, response.FromInvoice(inv))
}

func readMPPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if wrapped, ok := envelope["mp_payload"]; ok {
			if len(strings.TrimSpace(string(wrapped))) == 0 || strings.TrimSpace(string(wrapped)) == "null" {
				return nil, errors.New("mp_payload cannot be empty")
			}
			return wrapped, nil
		}
	}

	return json.RawMessage(raw), nil
}

func mapCollectionError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidMPPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentDeclined):
		return pkg.NewDomainError("PAYMENT_DECLINED", "Payment was not approved by the provider", err, http.StatusPaymentRequired)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider not configured", http.StatusServiceUnavailable)
	default:
		return mapInvoiceError(err)
	}
}
