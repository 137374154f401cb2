package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/usecase/interfaces"
)

type queuePublisher interface {
	Publish(ctx context.Context, queueName, messageID string, body []byte) error
}

// RabbitMQPublisher publishes invoice events to a durable queue.
type RabbitMQPublisher struct {
	client queuePublisher
	queue  string
}

var _ interfaces.IEventPublisher = (*RabbitMQPublisher)(nil)

func NewRabbitMQPublisher(client *RabbitMQClient, queue string) (*RabbitMQPublisher, error) {
	if err := client.DeclareQueue(queue); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &RabbitMQPublisher{client: client, queue: queue}, nil
}

func (p *RabbitMQPublisher) PublishInvoiceSent(ctx context.Context, evt entities.InvoiceSentEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.queue, evt.EventID, body)
}
