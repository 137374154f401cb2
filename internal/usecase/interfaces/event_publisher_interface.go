package interfaces

import (
	"context"

	"invoice_ledger/internal/domain/entities"
)

// IEventPublisher hands committed invoice events to the asynchronous consumers.
//go:generate mockgen -source=event_publisher_interface.go -destination=mocks/mock_event_publisher_interface.go -package=mock_interfaces

type IEventPublisher interface {
	PublishInvoiceSent(ctx context.Context, evt entities.InvoiceSentEvent) error
}
