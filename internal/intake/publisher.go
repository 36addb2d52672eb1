package intake

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"dubber/internal/config"
	"dubber/internal/job"
)

// Publish sends one job descriptor to the durable job queue. Used by the
// CLI to enqueue work for a running daemon.
func Publish(ctx context.Context, cfg config.Queue, desc job.Descriptor) error {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return fmt.Errorf("connect broker: %w", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer channel.Close()

	if _, err := channel.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %q: %w", cfg.QueueName, err)
	}

	body, err := json.Marshal(desc)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	err = channel.PublishWithContext(ctx, "", cfg.QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}
