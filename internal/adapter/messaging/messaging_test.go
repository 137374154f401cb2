package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"invoice_ledger/internal/domain/entities"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() entities.InvoiceSentEvent {
	return entities.InvoiceSentEvent{
		EventID:        "evt-1",
		Type:           entities.EventTypeInvoiceSent,
		TenantID:       "t1",
		InvoiceID:      "inv-1",
		InvoiceNumber:  "8",
		Total:          decimal.RequireFromString("100.00"),
		SentAt:         time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		RecipientEmail: "billing@acme.test",
	}
}

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, f.err
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return f.err
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return nil, f.err
}

func (f *fakeChannel) Qos(int, int, bool) error { return f.err }

func (f *fakeChannel) Close() error { return nil }

func TestRabbitMQPublisher(t *testing.T) {
	t.Run("declares queue and publishes persistent json", func(t *testing.T) {
		ch := &fakeChannel{}
		p, err := NewRabbitMQPublisher(&RabbitMQClient{chn: ch}, "invoice.events")
		require.NoError(t, err)
		require.NoError(t, p.PublishInvoiceSent(context.Background(), sampleEvent()))

		assert.Equal(t, []string{"invoice.events"}, ch.declared)
		require.Len(t, ch.published, 1)
		msg := ch.published[0]
		assert.Equal(t, "invoice.events", ch.keys[0])
		assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
		assert.Equal(t, "evt-1", msg.MessageId)

		var got entities.InvoiceSentEvent
		require.NoError(t, json.Unmarshal(msg.Body, &got))
		assert.Equal(t, "inv-1", got.InvoiceID)
		assert.True(t, got.Total.Equal(decimal.RequireFromString("100")))
	})

	t.Run("declare failure", func(t *testing.T) {
		_, err := NewRabbitMQPublisher(&RabbitMQClient{chn: &fakeChannel{err: errors.New("closed")}}, "q")
		assert.Error(t, err)
	})
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(w)
	require.NoError(t, p.PublishInvoiceSent(context.Background(), sampleEvent()))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "inv-1", string(w.msgs[0].Key))
	assert.Equal(t, "event_type", w.msgs[0].Headers[0].Key)

	w.err = errors.New("broker down")
	assert.Error(t, p.PublishInvoiceSent(context.Background(), sampleEvent()))
}

type ackRecorder struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *ackRecorder) Reject(tag uint64, _ bool) error { return nil }

func TestRunConsumer(t *testing.T) {
	acks := &ackRecorder{}
	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 1, Body: []byte("ok")}
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 2, Body: []byte("fail")}
	deliveries <- amqp.Delivery{Acknowledger: acks, DeliveryTag: 3, Body: []byte("ok")}
	close(deliveries)

	RunConsumer(context.Background(), deliveries, 2, func(_ context.Context, body []byte) error {
		if string(body) == "fail" {
			return errors.New("boom")
		}
		return nil
	})

	assert.ElementsMatch(t, []uint64{1, 3}, acks.acked)
	assert.Equal(t, []uint64{2}, acks.nacked)
}

func TestInvoiceSentHandler(t *testing.T) {
	var got entities.InvoiceSentEvent
	h := InvoiceSentHandler(func(_ context.Context, evt entities.InvoiceSentEvent) error {
		got = evt
		return nil
	})

	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)
	require.NoError(t, h(context.Background(), body))
	assert.Equal(t, "inv-1", got.InvoiceID)

	assert.Error(t, h(context.Background(), []byte("{")))
	assert.Error(t, h(context.Background(), []byte(`{"type":"invoice.voided"}`)))
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	fetchErr  error
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		if r.fetchErr != nil {
			return kafka.Message{}, r.fetchErr
		}
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestRunKafkaConsumer(t *testing.T) {
	t.Run("commits handled and failed messages", func(t *testing.T) {
		r := &fakeReader{msgs: []kafka.Message{
			{Offset: 1, Value: []byte("ok")},
			{Offset: 2, Value: []byte("fail")},
			{Offset: 3, Value: []byte("ok")},
		}}
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		var handled []string
		err := RunKafkaConsumer(ctx, r, func(_ context.Context, body []byte) error {
			handled = append(handled, string(body))
			if string(body) == "fail" {
				return errors.New("boom")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"ok", "fail", "ok"}, handled)
		assert.Equal(t, []int64{1, 2, 3}, r.committed)
	})

	t.Run("fetch error stops the consumer", func(t *testing.T) {
		r := &fakeReader{fetchErr: errors.New("broker gone")}
		err := RunKafkaConsumer(context.Background(), r, func(context.Context, []byte) error { return nil })
		assert.Error(t, err)
	})
}
