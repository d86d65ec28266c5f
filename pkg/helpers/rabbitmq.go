package helpers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// dialQueue opens a connection and channel and declares queue as durable,
// so producers and consumers agree on its shape whichever starts first.
func dialQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// RabbitPublisher publishes JSON messages to one durable queue through the
// default exchange. An AMQP channel must not be used by two goroutines at
// once, so publishes are serialized.
type RabbitPublisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
	AppID string
}

func NewRabbitPublisher(url, queue, appID string) (*RabbitPublisher, error) {
	conn, ch, err := dialQueue(url, queue)
	if err != nil {
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, Queue: queue, AppID: appID}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON encodes body and publishes it as a persistent message.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        p.AppID,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}

// RabbitConsumer reads a durable queue with manual acks.
type RabbitConsumer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	Msgs <-chan amqp.Delivery
}

// NewRabbitConsumer limits unacked deliveries to prefetch so several workers
// share the queue fairly.
func NewRabbitConsumer(url, queue string, prefetch int) (*RabbitConsumer, error) {
	conn, ch, err := dialQueue(url, queue)
	if err != nil {
		return nil, err
	}
	closeAll := func() {
		_ = ch.Close()
		_ = conn.Close()
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		closeAll()
		return nil, err
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		closeAll()
		return nil, err
	}
	return &RabbitConsumer{conn: conn, ch: ch, Msgs: msgs}, nil
}

func (c *RabbitConsumer) Close() {
	if c == nil {
		return
	}
	_ = c.ch.Close()
	_ = c.conn.Close()
}
