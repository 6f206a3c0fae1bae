package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aq2208/gorder-cart/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

const handoffQueue = "order.handoff.q"

// Channel is the subset of *amqp.Channel the producer uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Confirm(noWait bool) error
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error)
}

var ErrNotConfirmed = errors.New("broker did not confirm publish")

// RabbitProducer implements usecase.HandoffPublisher.
type RabbitProducer struct {
	ch         Channel
	exchange   string
	routingKey string
}

// NewRabbitProducer sets up the exchange, queue, and binding once at startup.
func NewRabbitProducer(ch Channel, exchange, routingKey string) (*RabbitProducer, error) {
	// 1. declare exchange (topic type, durable)
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	// 2. declare queue
	q, err := ch.QueueDeclare(
		handoffQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	// 3. bind queue → exchange
	if err := ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	// 4. publisher confirms; PublishHandoff waits for each one
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitProducer{ch: ch, exchange: exchange, routingKey: routingKey}, nil
}

// PublishHandoff sends an "order.handoff" event and waits for the broker ack.
func (p *RabbitProducer) PublishHandoff(ctx context.Context, msg usecase.HandoffMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		MessageId:    msg.Ref,
		Timestamp:    msg.At,
		Body:         body,
	}

	conf, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, p.routingKey, false, false, pub)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	if conf == nil {
		return nil
	}
	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm: %w", err)
	}
	if !acked {
		return ErrNotConfirmed
	}
	return nil
}

var _ usecase.HandoffPublisher = (*RabbitProducer)(nil)
