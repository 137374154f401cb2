package handlers

import (
	"errors"
	"net/http"
	"strings"

	request "invoice_ledger/internal/adapter/http/dto/request"
	response "invoice_ledger/internal/adapter/http/dto/response"
	"invoice_ledger/internal/domain/invoicing"
	"invoice_ledger/internal/infrastructure/logger"
	"invoice_ledger/internal/usecase"
	"invoice_ledger/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderActorID  = "X-Actor-ID"
)

var (
	errInvalidInvoicePayload = pkg.NewDomainErrorSimple("INVALID_INVOICE_INPUT", "Invalid invoice payload", http.StatusBadRequest)
	errMissingTenant         = pkg.NewDomainErrorSimple("MISSING_TENANT", "X-Tenant-ID header is required", http.StatusBadRequest)
)

// InvoiceHandler handles HTTP requests for invoices and their payments ledger.
//
// Every route is tenant scoped through the X-Tenant-ID header.

type InvoiceHandler struct {
	usecase usecase.IInvoiceUseCase
	log     zerolog.Logger
}

func NewInvoiceHandler(uc usecase.IInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{usecase: uc, log: logger.WithComponent("invoice-handler")}
}

// CreateInvoice godoc
// @Summary      Create a draft invoice
// @Description  Allocates the next invoice number unless invoice_number is given.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID  header  string                        true  "Tenant"
// @Param        invoice      body    request.CreateInvoiceRequest  true  "Invoice"
// @Success      201  {object}  response.InvoiceResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      503  {object}  pkg.HTTPError
// @Router       /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	var payload request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("create invalid payload")
		writeError(c, errInvalidInvoicePayload)
		return
	}

	inv, err := h.usecase.CreateInvoice(c.Request.Context(), tenantID, payload.ToInput(actorID(c)))
	if err != nil {
		writeError(c, mapInvoiceError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromInvoice(inv))
}

// GetInvoice godoc
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID  header  string  true  "Tenant"
// @Param        id           path    string  true  "Invoice ID"
// @Success      200  {object}  response.InvoiceResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	inv, err := h.usecase.GetInvoice(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		writeError(c, mapInvoiceError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(inv))
}

// UpdateInvoice godoc
// @Summary      Update an invoice
// @Description  Rejected with 409 once the invoice is sent and fully paid.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID  header  string                        true  "Tenant"
// @Param        id           path    string                        true  "Invoice ID"
// @Param        invoice      body    request.UpdateInvoiceRequest  true  "Fields to change"
// @Success      200  {object}  response.InvoiceResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /invoices/{id} [patch]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	var payload request.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidInvoicePayload)
		return
	}

	inv, err := h.usecase.UpdateInvoice(c.Request.Context(), tenantID, c.Param("id"), payload.ToInput())
	if err != nil {
		writeError(c, mapInvoiceError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(inv))
}

// DeleteInvoice godoc
// @Summary      Delete an invoice
// @Tags         invoices
// @Param        X-Tenant-ID  header  string  true  "Tenant"
// @Param        id           path    string  true  "Invoice ID"
// @Success      204
// @Failure      404  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	if err := h.usecase.DestroyInvoice(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		writeError(c, mapInvoiceError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// BatchDeleteInvoices godoc
// @Summary      Delete several invoices
// @Description  Deletes all listed invoices or none of them.
// @Tags         invoices
// @Accept       json
// @Param        X-Tenant-ID  header  string                      true  "Tenant"
// @Param        ids          body    request.BatchDeleteRequest  true  "Invoice IDs"
// @Success      204
// @Failure      400  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /invoices/batch-delete [post]
func (h *InvoiceHandler) BatchDeleteInvoices(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	var payload request.BatchDeleteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidInvoicePayload)
		return
	}
	ids, err := payload.ResolveIDs()
	if err != nil {
		writeError(c, pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest).
			WithDetail("reason", err.Error()).WithDetail("max_ids", request.MaxBatchDelete))
		return
	}

	if err := h.usecase.DestroyInvoices(c.Request.Context(), tenantID, ids); err != nil {
		writeError(c, mapInvoiceError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordPayment godoc
// @Summary      Record a manual payment
// @Description  Rejects amounts that would take the total paid above the invoice total.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID  header  string                  true  "Tenant"
// @Param        id           path    string                  true  "Invoice ID"
// @Param        payment      body    request.PaymentRequest  true  "Payment"
// @Success      201  {object}  response.InvoiceResponse
// @Failure      409  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	var payload request.PaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidInvoicePayload)
		return
	}
	in, err := payload.ToInput(actorID(c))
	if err != nil {
		writeError(c, pkg.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount is required", err, http.StatusBadRequest))
		return
	}

	inv, err := h.usecase.RecordPayment(c.Request.Context(), tenantID, c.Param("id"), in)
	if err != nil {
		writeError(c, mapInvoiceError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromInvoice(inv))
}

// SendInvoice godoc
// @Summary      Send an invoice
// @Description  Requires full payment. Sending an already sent invoice re-announces it.
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID  header  string  true  "Tenant"
// @Param        id           path    string  true  "Invoice ID"
// @Success      200  {object}  response.SendInvoiceResponse
// @Failure      409  {object}  pkg.HTTPError
// @Router       /invoices/{id}/send [post]
func (h *InvoiceHandler) SendInvoice(c *gin.Context) {
	tenantID, ok := requireTenant(c)
	if !ok {
		return
	}
	res, err := h.usecase.SendInvoice(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		writeError(c, mapInvoiceError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromSendResult(res))
}

func requireTenant(c *gin.Context) (string, bool) {
	tenantID := strings.TrimSpace(c.GetHeader(HeaderTenantID))
	if tenantID == "" {
		writeError(c, errMissingTenant)
		return "", false
	}
	return tenantID, true
}

func actorID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(HeaderActorID))
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapInvoiceError(err error) *pkg.AppError {
	var (
		validationErr  *invoicing.ValidationError
		overpaymentErr *invoicing.OverpaymentError
		notPaidErr     *invoicing.NotFullyPaidError
	)
	switch {
	case errors.As(err, &validationErr):
		return pkg.NewDomainError("VALIDATION_FAILED", "Invalid invoice", err, http.StatusBadRequest).
			WithDetail("field", validationErr.Field).WithDetail("reason", validationErr.Reason)
	case errors.Is(err, usecase.ErrValidationFailed):
		return pkg.NewDomainError("VALIDATION_FAILED", "Invalid invoice", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	case errors.As(err, &overpaymentErr):
		return pkg.NewDomainError("OVERPAYMENT_REJECTED", "Payment exceeds the outstanding balance", err, http.StatusUnprocessableEntity).
			WithDetail("attempted_amount", overpaymentErr.Attempted.StringFixed(2)).
			WithDetail("max_acceptable_amount", overpaymentErr.MaxAcceptable.StringFixed(2))
	case errors.Is(err, usecase.ErrOverpaymentRejected):
		return pkg.NewDomainError("OVERPAYMENT_REJECTED", "Payment exceeds the outstanding balance", err, http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrInvalidPaymentAmount):
		return pkg.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive with at most two decimal places", err, http.StatusUnprocessableEntity)
	case errors.As(err, &notPaidErr):
		return pkg.NewDomainError("NOT_FULLY_PAID", "Invoice must be fully paid before sending", err, http.StatusConflict).
			WithDetail("remaining_balance", notPaidErr.Remaining.StringFixed(2))
	case errors.Is(err, usecase.ErrNotFullyPaid):
		return pkg.NewDomainError("NOT_FULLY_PAID", "Invoice must be fully paid before sending", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrInvoiceLocked):
		return pkg.NewDomainError("INVOICE_LOCKED", "Invoice is sent and fully paid", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrRetryExhausted):
		return pkg.NewDomainError("RETRY_EXHAUSTED", "Too much contention, try again", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
