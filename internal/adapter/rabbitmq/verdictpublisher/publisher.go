// Package verdictpublisher announces graded submissions on a RabbitMQ queue.
package verdictpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/ports/secondary"
	"gitlab.com/jobprep-2025.net/internal/domain"
)

var _ secondary.VerdictPublisher = (*Publisher)(nil)

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

type Publisher struct {
	mu      sync.Mutex
	channel Channel
	queue   string
	logger  primary.Logger
}

// NewPublisher declares queue as durable and returns a publisher for it.
func NewPublisher(channel Channel, queue string, logger primary.Logger) (*Publisher, error) {
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &Publisher{
		channel: channel,
		queue:   queue,
		logger:  logger,
	}, nil
}

// Dial connects to url and opens the channel used by NewPublisher.
func Dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return conn, ch, nil
}

func (p *Publisher) Publish(ctx context.Context, event domain.VerdictEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict event: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.SubmissionID.String(),
		Timestamp:    event.GradedAt,
		Body:         body,
	})
	if err != nil {
		p.logger.Error("Failed to publish verdict", "submissionId", event.SubmissionID, "error", err)
		return fmt.Errorf("failed to publish verdict: %w", err)
	}

	p.logger.Debug("Published verdict", "submissionId", event.SubmissionID, "queue", p.queue)
	return nil
}
