package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aq2208/gorder-cart/internal/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerChannel is the subset of *amqp.Channel the router uses.
type ConsumerChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Router manages multiple consumers (one per registered queue) on a single AMQP channel.
type Router struct {
	ch            ConsumerChannel
	prefetch      int
	callTimeout   time.Duration
	requeueOnErr  bool
	registrations []registration
	log           *slog.Logger
	wg            sync.WaitGroup
}

type registration struct {
	queueName   string
	handler     Handler
	consumerTag string
}

// --- Options ---

type RouterOption func(*Router)

func WithPrefetch(n int) RouterOption          { return func(r *Router) { r.prefetch = n } }
func WithTimeout(d time.Duration) RouterOption { return func(r *Router) { r.callTimeout = d } }
func WithRequeue(b bool) RouterOption          { return func(r *Router) { r.requeueOnErr = b } }

// NewRouter constructs a Router. Defaults: prefetch=10, timeout=30s, requeueOnErr=true.
func NewRouter(ch ConsumerChannel, opts ...RouterOption) *Router {
	r := &Router{
		ch:           ch,
		prefetch:     10,
		callTimeout:  30 * time.Second,
		requeueOnErr: true,
		log:          logging.New("rmq-router"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register associates a queue with a handler. Call multiple times for multiple queues.
func (r *Router) Register(queueName string, h Handler) {
	r.registrations = append(r.registrations, registration{
		queueName:   queueName,
		handler:     h,
		consumerTag: "c_" + queueName,
	})
}

// Start begins consuming; non-blocking (spawns one goroutine per queue).
// Consumers stop when ctx is done or the channel closes.
func (r *Router) Start(ctx context.Context) error {
	if err := r.ch.Qos(r.prefetch, 0, false); err != nil {
		return err
	}

	for _, reg := range r.registrations {
		deliveries, err := r.ch.Consume(
			reg.queueName,
			reg.consumerTag,
			false, // manual ack
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,
		)
		if err != nil {
			return err
		}

		r.wg.Add(1)
		go func(reg registration, msgs <-chan amqp.Delivery) {
			defer r.wg.Done()
			defer r.log.Info("consumer stopped", "queue", reg.queueName, "tag", reg.consumerTag)
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-msgs:
					if !ok {
						return
					}
					r.dispatch(ctx, reg, d)
				}
			}
		}(reg, deliveries)
	}

	return nil
}

// Wait blocks until every consumer goroutine has returned.
func (r *Router) Wait() { r.wg.Wait() }

func (r *Router) dispatch(ctx context.Context, reg registration, d amqp.Delivery) {
	hctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	err := reg.handler.Handle(hctx, d)
	cancel()

	if err == nil {
		_ = d.Ack(false)
		return
	}
	requeue := r.requeueOnErr && !errors.Is(err, ErrPoison)
	r.log.Warn("handler error", "queue", reg.queueName, "tag", reg.consumerTag,
		"rk", d.RoutingKey, "err", err, "requeue", requeue)
	_ = d.Nack(false, requeue)
}
