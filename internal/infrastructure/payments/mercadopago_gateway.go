package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"invoice_ledger/internal/infrastructure/logger"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/rs/zerolog"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

// MercadoPagoGateway charges invoice balances through the Mercado Pago payments API.
// In mock mode it approves every request locally and never calls the provider.
type MercadoPagoGateway struct {
	client   payment.Client
	mockMode bool
	now      func() time.Time
	log      zerolog.Logger
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string, mockMode bool) (*MercadoPagoGateway, error) {
	log := logger.WithComponent("mercadopago-gateway")
	if mockMode {
		log.Info().Msg("mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, now: time.Now, log: log}, nil
	}

	if accessToken == "" {
		log.Error().Msg("missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Error().Err(err).Msg("failed creating sdk config")
		return nil, err
	}
	log.Info().Msg("client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg), now: time.Now, log: log}, nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, requestPayload json.RawMessage) (providerPaymentID string, providerStatus string, providerResponse json.RawMessage, err error) {
	if g == nil {
		return "", "", nil, ErrMercadoPagoGatewayNotConfigured
	}
	if g.mockMode {
		return g.createMockPayment(requestPayload)
	}
	if g.client == nil {
		g.log.Error().Msg("gateway not configured")
		return "", "", nil, ErrMercadoPagoGatewayNotConfigured
	}
	g.log.Info().Int("payload_len", len(requestPayload)).Msg("create start")

	var req payment.Request
	if err := json.Unmarshal(requestPayload, &req); err != nil {
		g.log.Warn().Err(err).Msg("payload unmarshal failed")
		return "", "", nil, err
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		g.log.Error().Err(err).Msg("sdk create failed")
		return "", "", nil, err
	}

	b, err := json.Marshal(resp)
	if err != nil {
		g.log.Error().Err(err).Msg("response marshal failed")
		return "", "", nil, err
	}
	id := fmt.Sprintf("%d", resp.ID)
	g.log.Info().Str("provider_payment_id", id).Str("provider_status", resp.Status).Msg("create success")

	return id, resp.Status, b, nil
}

func (g *MercadoPagoGateway) createMockPayment(requestPayload json.RawMessage) (string, string, json.RawMessage, error) {
	g.log.Info().Int("payload_len", len(requestPayload)).Msg("mock create start")

	resp := map[string]any{}
	if len(requestPayload) > 0 && json.Valid(requestPayload) {
		if err := json.Unmarshal(requestPayload, &resp); err != nil {
			resp = map[string]any{"request_payload_raw": string(requestPayload)}
		}
	}

	now := g.now().UTC()
	id := strconv.FormatInt(now.UnixNano(), 10)
	resp["id"] = id
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	if _, ok := resp["date_created"]; !ok {
		resp["date_created"] = now.Format(time.RFC3339Nano)
	}
	if _, ok := resp["date_approved"]; !ok {
		resp["date_approved"] = now.Format(time.RFC3339Nano)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		g.log.Error().Err(err).Msg("mock response marshal failed")
		return "", "", nil, err
	}

	g.log.Info().Str("provider_payment_id", id).Str("provider_status", "approved").Msg("mock create success")
	return id, "approved", b, nil
}
