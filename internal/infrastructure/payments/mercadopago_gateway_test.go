package payments

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMercadoPagoGateway(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		_, err := NewMercadoPagoGateway("", false)
		assert.ErrorIs(t, err, ErrMissingMercadoPagoAccessToken)
	})

	t.Run("mock mode needs no token", func(t *testing.T) {
		g, err := NewMercadoPagoGateway("", true)
		require.NoError(t, err)
		assert.True(t, g.mockMode)
	})
}

func TestMercadoPagoGateway_CreatePaymentMock(t *testing.T) {
	g, err := NewMercadoPagoGateway("", true)
	require.NoError(t, err)
	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	id, status, raw, err := g.CreatePayment(context.Background(), json.RawMessage(`{"external_reference":"inv-1","transaction_amount":88}`))
	require.NoError(t, err)
	assert.Equal(t, "approved", status)
	assert.NotEmpty(t, id)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "inv-1", body["external_reference"])
	assert.Equal(t, "accredited", body["status_detail"])
	assert.Equal(t, id, body["id"])
}

func TestMercadoPagoGateway_NotConfigured(t *testing.T) {
	var g *MercadoPagoGateway
	_, _, _, err := g.CreatePayment(context.Background(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrMercadoPagoGatewayNotConfigured)

	_, _, _, err = (&MercadoPagoGateway{}).CreatePayment(context.Background(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrMercadoPagoGatewayNotConfigured)
}
