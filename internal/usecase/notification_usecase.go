package usecase

import (
	"context"
	"fmt"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/infrastructure/logger"
	"invoice_ledger/internal/infrastructure/metrics"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/rs/zerolog"
)

// INotificationUseCase reacts to committed sends. It never changes invoice state.

type INotificationUseCase interface {
	HandleInvoiceSent(ctx context.Context, evt entities.InvoiceSentEvent) error
}

type NotificationUseCase struct {
	repo     interfaces.IInvoiceRepository
	renderer interfaces.IDocumentRenderer
	notifier interfaces.INotifier
	metrics  *metrics.Recorder
	log      zerolog.Logger
}

var _ INotificationUseCase = (*NotificationUseCase)(nil)

func NewNotificationUseCase(repo interfaces.IInvoiceRepository, renderer interfaces.IDocumentRenderer, notifier interfaces.INotifier) *NotificationUseCase {
	return &NotificationUseCase{
		repo:     repo,
		renderer: renderer,
		notifier: notifier,
		metrics:  metrics.Default,
		log:      logger.WithComponent("notification-usecase"),
	}
}

// HandleInvoiceSent renders the invoice document and mails it to the event recipient.
func (u *NotificationUseCase) HandleInvoiceSent(ctx context.Context, evt entities.InvoiceSentEvent) error {
	log := u.log.With().Str("tenant_id", evt.TenantID).Str("invoice_id", evt.InvoiceID).Str("event_id", evt.EventID).Logger()
	log.Info().Bool("resend", evt.Resend).Msg("dispatch start")

	inv, err := u.repo.GetByID(ctx, evt.TenantID, evt.InvoiceID)
	if err != nil {
		return err
	}
	if inv.ID == "" {
		return fmt.Errorf("%w: %s", ErrInvoiceNotFound, evt.InvoiceID)
	}

	doc, err := u.renderer.Render(ctx, inv)
	if err != nil {
		u.metrics.NotificationFailures.WithLabelValues("render").Inc()
		log.Error().Err(err).Msg("dispatch render failed")
		return err
	}

	if evt.RecipientEmail == "" {
		log.Info().Str("document", doc.FileName).Msg("dispatch rendered, no recipient")
		return nil
	}
	if err := u.notifier.Notify(ctx, evt.RecipientEmail, inv, doc); err != nil {
		u.metrics.NotificationFailures.WithLabelValues("notify").Inc()
		log.Error().Err(err).Msg("dispatch notify failed")
		return err
	}
	log.Info().Str("document", doc.FileName).Msg("dispatch success")
	return nil
}
