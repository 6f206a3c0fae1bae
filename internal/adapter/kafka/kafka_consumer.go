package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/aq2208/gorder-cart/internal/logging"
	"github.com/aq2208/gorder-cart/internal/usecase"
)

// HandlerFunc processes a decoded event.
type HandlerFunc func(ctx context.Context, ev usecase.CatalogPublishedMsg) error

// Consumer consumes catalog announcements with a single handler.
type Consumer struct {
	Group  sarama.ConsumerGroup
	Topics []string
	Handle HandlerFunc
	Logger *slog.Logger
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, h HandlerFunc) *Consumer {
	return &Consumer{
		Group:  group,
		Topics: topics,
		Handle: h,
		Logger: logging.New("kafka-consumer"),
	}
}

// Start blocks until ctx is cancelled or the group is closed.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &cgHandler{handle: c.Handle, logger: c.Logger}
	go func() {
		for err := range c.Group.Errors() {
			c.Logger.Warn("consumer group error", "err", err)
		}
	}()
	for {
		if err := c.Group.Consume(ctx, c.Topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		// When Consume returns, it’s because ctx was cancelled or a rebalance happened.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type cgHandler struct {
	handle HandlerFunc
	logger *slog.Logger
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev usecase.CatalogPublishedMsg
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			h.logger.Warn("kafka decode error", "err", err, "topic", msg.Topic, "off", msg.Offset)
			// mark to avoid reprocessing poison
			sess.MarkMessage(msg, "decode-error")
			continue
		}
		if err := h.handle(sess.Context(), ev); err != nil {
			// A failed reload keeps the old menu; the next announcement retries.
			h.logger.Warn("handler error", "err", err, "key", string(msg.Key), "off", msg.Offset)
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
