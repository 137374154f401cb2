package messaging

import (
	"context"
	"sync"

	"invoice_ledger/internal/infrastructure/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc processes one message body. A returned error nacks the message
// without requeue.
type HandlerFunc func(ctx context.Context, body []byte) error

// RunConsumer fans deliveries out to workers until ctx is done or the channel closes.
func RunConsumer(ctx context.Context, deliveries <-chan amqp.Delivery, workers int, handle HandlerFunc) {
	log := logger.WithComponent("rabbitmq-consumer")
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					if err := handle(ctx, d.Body); err != nil {
						log.Error().Err(err).Int("worker", worker).Str("message_id", d.MessageId).Msg("message handling failed")
						_ = d.Nack(false, false)
						continue
					}
					_ = d.Ack(false)
				}
			}
		}(i)
	}
	wg.Wait()
}
