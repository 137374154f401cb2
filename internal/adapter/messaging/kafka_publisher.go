package messaging

import (
	"context"
	"encoding/json"

	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/usecase/interfaces"

	"github.com/segmentio/kafka-go"
)

// KafkaWriter is the subset of kafka.Writer the publisher needs.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes invoice events keyed by invoice id, so every event of
// one invoice lands on the same partition in order.
type KafkaPublisher struct {
	writer KafkaWriter
}

var _ interfaces.IEventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokerURL, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokerURL),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	})
}

func NewKafkaPublisherWithWriter(w KafkaWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishInvoiceSent(ctx context.Context, evt entities.InvoiceSentEvent) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.InvoiceID),
		Value: b,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
			{Key: "tenant_id", Value: []byte(evt.TenantID)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
