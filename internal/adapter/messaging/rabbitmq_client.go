package messaging

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the subset of *amqp.Channel the client uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Close() error
}

type RabbitMQClient struct {
	conn *amqp.Connection
	chn  amqpChannel
}

func NewRabbitMQClient(url string) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}
	chn, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	return &RabbitMQClient{conn: conn, chn: chn}, nil
}

func (r *RabbitMQClient) Close() error {
	if err := r.chn.Close(); err != nil {
		return err
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// DeclareQueue declares a durable queue.
func (r *RabbitMQClient) DeclareQueue(queueName string) error {
	_, err := r.chn.QueueDeclare(queueName, true, false, false, false, nil)
	return err
}

// Publish sends a persistent JSON message to queueName through the default exchange.
func (r *RabbitMQClient) Publish(ctx context.Context, queueName, messageID string, body []byte) error {
	return r.chn.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Body:         body,
	})
}

// Consume starts a manual-ack consumer on queueName.
func (r *RabbitMQClient) Consume(queueName string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := r.chn.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return r.chn.Consume(queueName, "", false, false, false, false, nil)
}
