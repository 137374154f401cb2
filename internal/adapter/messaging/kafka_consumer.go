package messaging

import (
	"context"

	"invoice_ledger/internal/infrastructure/logger"

	"github.com/segmentio/kafka-go"
)

// KafkaReader is the subset of kafka.Reader the consumer needs.
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaReader(brokerURL, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{brokerURL},
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// RunKafkaConsumer handles messages one by one in partition order until ctx is done.
// A failed message is logged and committed, matching the nack-without-requeue
// behaviour of the RabbitMQ consumer.
func RunKafkaConsumer(ctx context.Context, r KafkaReader, handle HandlerFunc) error {
	log := logger.WithComponent("kafka-consumer")
	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("fetch failed")
			return err
		}

		if err := handle(ctx, m.Value); err != nil {
			log.Error().Err(err).Str("key", string(m.Key)).Int("partition", m.Partition).Int64("offset", m.Offset).Msg("message handling failed")
		}
		if err := r.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Int64("offset", m.Offset).Msg("commit failed")
			return err
		}
	}
}
