package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/domain/invoicing"
	"invoice_ledger/internal/infrastructure/logger"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMPPayload               = errors.New("invalid mercado pago payload")
	ErrPaymentDeclined                = errors.New("payment not approved by provider")
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// ICollectionUseCase charges an invoice balance through an external provider and
// records the approved charge in the invoice ledger.

type ICollectionUseCase interface {
	CollectWithMercadoPago(ctx context.Context, tenantID, invoiceID, actor string, mpPayload json.RawMessage) (entities.Invoice, error)
}

type CollectionUseCase struct {
	invoices IInvoiceUseCase
	gateway  interfaces.IPaymentGateway
	mockMode bool
	log      zerolog.Logger
}

var _ ICollectionUseCase = (*CollectionUseCase)(nil)

func NewCollectionUseCase(invoices IInvoiceUseCase, gateway interfaces.IPaymentGateway, mockMode bool) *CollectionUseCase {
	return &CollectionUseCase{
		invoices: invoices,
		gateway:  gateway,
		mockMode: mockMode,
		log:      logger.WithComponent("collection-usecase"),
	}
}

// CollectWithMercadoPago validates the amount against the ledger before charging.
//
// The amount comes from transaction_amount when present, otherwise it is the
// outstanding balance. external_reference always carries the invoice id.
func (u *CollectionUseCase) CollectWithMercadoPago(ctx context.Context, tenantID, invoiceID, actor string, mpPayload json.RawMessage) (entities.Invoice, error) {
	u.log.Info().Str("tenant_id", tenantID).Str("invoice_id", invoiceID).Int("payload_len", len(mpPayload)).Msg("collect start")
	if u.gateway == nil {
		return entities.Invoice{}, ErrPaymentGatewayNotConfigured
	}

	if len(bytes.TrimSpace(mpPayload)) == 0 {
		mpPayload = json.RawMessage("{}")
	}
	reqMap, err := decodePayload(mpPayload)
	if err != nil {
		u.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("collect invalid payload")
		return entities.Invoice{}, ErrInvalidMPPayload
	}

	inv, err := u.invoices.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if err := invoicing.EnsureMutable(inv); err != nil {
		return entities.Invoice{}, err
	}

	remaining := invoicing.Remaining(inv)
	amount := remaining
	if raw, ok := reqMap["transaction_amount"]; ok {
		amount, err = amountFromJSON(raw)
		if err != nil {
			return entities.Invoice{}, ErrInvalidMPPayload
		}
	}
	if !amount.IsPositive() {
		if invoicing.IsFullyPaid(inv) {
			return entities.Invoice{}, &invoicing.OverpaymentError{Attempted: amount, MaxAcceptable: decimal.Zero}
		}
		return entities.Invoice{}, ErrInvalidPaymentAmount
	}
	if !invoicing.HasAtMostPlaces(amount, invoicing.MoneyPlaces) {
		return entities.Invoice{}, ErrInvalidPaymentAmount
	}
	if amount.GreaterThan(remaining.Add(invoicing.Epsilon)) {
		return entities.Invoice{}, &invoicing.OverpaymentError{Attempted: amount, MaxAcceptable: remaining}
	}

	if !u.mockMode {
		if !hasNonEmptyString(reqMap, "payment_method_id") {
			u.log.Warn().Str("invoice_id", invoiceID).Msg("collect missing payment_method_id")
			return entities.Invoice{}, ErrInvalidMPPayload
		}
		normalizeSandboxPayerFromUserID(reqMap)
		ensurePayerDefaults(reqMap)
		if !hasPayer(reqMap) {
			u.log.Warn().Str("invoice_id", invoiceID).Msg("collect missing payer")
			return entities.Invoice{}, ErrInvalidMPPayload
		}
	}

	reqMap["external_reference"] = inv.ID
	if _, ok := reqMap["description"]; !ok {
		reqMap["description"] = fmt.Sprintf("Invoice %s", inv.InvoiceNumber)
	}
	reqMap["transaction_amount"] = amount.InexactFloat64()
	payload, err := json.Marshal(reqMap)
	if err != nil {
		return entities.Invoice{}, err
	}

	providerPaymentID, providerStatus, _, err := u.gateway.CreatePayment(ctx, payload)
	if err != nil {
		u.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("collect payment gateway failed")
		return entities.Invoice{}, classifyGatewayError(err)
	}
	if !strings.EqualFold(providerStatus, "approved") {
		u.log.Warn().Str("invoice_id", invoiceID).Str("provider_payment_id", providerPaymentID).Str("provider_status", providerStatus).Msg("collect payment not approved")
		return entities.Invoice{}, fmt.Errorf("%w: status %s", ErrPaymentDeclined, providerStatus)
	}

	updated, err := u.invoices.RecordPayment(ctx, tenantID, invoiceID, PaymentInput{
		Amount:            amount,
		Method:            entities.PaymentMethodMercadoPago,
		Note:              fmt.Sprintf("mercado pago payment %s", providerPaymentID),
		ProviderPaymentID: providerPaymentID,
		CreatedBy:         actor,
	})
	if err != nil {
		u.log.Error().Err(err).Str("tenant_id", tenantID).Str("invoice_id", invoiceID).
			Str("provider_payment_id", providerPaymentID).Str("amount", amount.StringFixed(2)).
			Msg("collect charged but ledger write failed, needs reconciliation")
		return entities.Invoice{}, err
	}
	u.log.Info().Str("tenant_id", tenantID).Str("invoice_id", invoiceID).Str("provider_payment_id", providerPaymentID).Msg("collect success")
	return updated, nil
}

func decodePayload(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("payload must be a json object")
	}
	return m, nil
}

func amountFromJSON(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(n))
	}
	return decimal.Zero, fmt.Errorf("unsupported amount %v", v)
}

func classifyGatewayError(err error) error {
	switch {
	case isGatewayCustomerNotFound(err):
		return ErrPaymentGatewayCustomerNotFound
	case isGatewayInvalidUsers(err):
		return ErrPaymentGatewayInvalidUsers
	case isGatewayUnauthorized(err):
		return ErrPaymentGatewayUnauthorized
	case isGatewayBadRequest(err):
		return ErrPaymentGatewayBadRequest
	}
	return err
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

func ensurePayerDefaults(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}

	// In sandbox either payer.id or payer.email may be used; fill email only when both are missing.
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") {
		if email := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL")); email != "" {
			payer["email"] = email
		} else if strings.HasPrefix(strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")), "TEST-") {
			payer["email"] = "test_user_br@testuser.com"
		}
	}
}

// normalizeSandboxPayerFromUserID swaps a configured sandbox user id for its email.
func normalizeSandboxPayerFromUserID(m map[string]any) {
	payer, ok := m["payer"].(map[string]any)
	if !ok || !hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	if !strings.HasPrefix(strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")), "TEST-") {
		return
	}

	configuredUserID := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_USER_ID"))
	configuredEmail := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL"))
	if configuredUserID == "" || configuredEmail == "" {
		return
	}
	if strings.TrimSpace(fmt.Sprintf("%v", payer["id"])) != configuredUserID {
		return
	}
	payer["email"] = configuredEmail
	delete(payer, "id")
}

func isGatewayBadRequest(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}

func isGatewayInvalidUsers(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034")
}

func isGatewayCustomerNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002")
}
