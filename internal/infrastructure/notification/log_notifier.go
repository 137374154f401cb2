package notification

import (
	"context"
	"errors"
	"strings"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/infrastructure/logger"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/rs/zerolog"
)

var ErrEmptyAddress = errors.New("notification address is empty")

// LogNotifier records deliveries in the log instead of sending email. Mail
// delivery is owned by the communications service.
type LogNotifier struct {
	log zerolog.Logger
}

var _ interfaces.INotifier = (*LogNotifier)(nil)

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.WithComponent("notifier")}
}

func (n *LogNotifier) Notify(_ context.Context, address string, inv entities.Invoice, doc interfaces.Document) error {
	if strings.TrimSpace(address) == "" {
		return ErrEmptyAddress
	}
	n.log.Info().
		Str("tenant_id", inv.TenantID).
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Str("to", address).
		Str("attachment", doc.FileName).
		Int("attachment_bytes", len(doc.Content)).
		Msg("invoice delivered")
	return nil
}
