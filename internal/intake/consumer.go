// Package intake consumes job descriptors from the message broker and hands
// them to the pipeline.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"dubber/internal/config"
	"dubber/internal/job"
	"dubber/internal/logging"
)

// Handler processes one decoded job descriptor.
type Handler interface {
	Process(ctx context.Context, desc job.Descriptor) error
}

// Consumer reads job messages from a durable queue. Delivery is
// at-least-once; the handler is expected to guard against redelivery of
// finished jobs.
type Consumer struct {
	cfg     config.Queue
	handler Handler
	logger  *slog.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewConsumer connects to the broker and declares the durable job queue.
func NewConsumer(cfg config.Queue, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if handler == nil {
		return nil, errors.New("intake requires a handler")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect broker: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := channel.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", cfg.QueueName, err)
	}
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := channel.Qos(prefetch, 0, false); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("set prefetch: %w", err)
	}

	return &Consumer{
		cfg:     cfg,
		handler: handler,
		logger:  logging.NewComponentLogger(logger, "intake"),
		conn:    conn,
		channel: channel,
	}, nil
}

// Run consumes messages until ctx is cancelled or the broker connection
// drops. One job is processed at a time per worker.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.Consume(c.cfg.QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consume: %w", err)
	}
	c.logger.Info("waiting for jobs", logging.String("queue", c.cfg.QueueName))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("broker channel closed")
			}
			c.handle(ctx, delivery)
		}
	}
}

// handle decodes and dispatches one delivery. There is no retry policy, so
// messages are acknowledged regardless of outcome: a malformed body carries
// no job to report against and is dropped, and processing failures have
// already been reported as FAILED by the pipeline.
func (c *Consumer) handle(ctx context.Context, delivery amqp.Delivery) {
	defer func() {
		if err := delivery.Ack(false); err != nil {
			c.logger.Warn("ack failed", logging.Error(err))
		}
	}()

	desc, err := job.DecodeMessage(delivery.Body)
	if err != nil {
		c.logger.Warn("dropping malformed message", logging.Error(err))
		return
	}

	if err := c.handler.Process(ctx, desc); err != nil {
		c.logger.Error("job failed",
			logging.String(logging.FieldJobID, desc.ID),
			logging.Error(err))
	}
}

// Close tears down the broker connection.
func (c *Consumer) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
