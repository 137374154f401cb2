package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"invoice_ledger/internal/domain/entities"
)

// InvoiceSentHandler decodes InvoiceSent events and hands them to fn.
func InvoiceSentHandler(fn func(ctx context.Context, evt entities.InvoiceSentEvent) error) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		var evt entities.InvoiceSentEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			return fmt.Errorf("invalid invoice event: %w", err)
		}
		if evt.Type != entities.EventTypeInvoiceSent {
			return fmt.Errorf("unexpected event type %q", evt.Type)
		}
		return fn(ctx, evt)
	}
}
