package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aurora-digital/identity/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const notificationQueue = "identity.notifications"

// Publisher pushes notification events onto a durable RabbitMQ queue.
// When AMQP is disabled or unreachable it degrades to a no-op so auth
// flows never depend on the broker being up.
type Publisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	enabled bool
	log     *zap.Logger
}

func NewPublisher(cfg config.AMQPConfig, log *zap.Logger) *Publisher {
	p := &Publisher{log: log}

	if !cfg.Enabled {
		log.Info("AMQP disabled, notification events will be dropped")
		return p
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		log.Warn("Failed to connect to AMQP, continuing without notifications", zap.Error(err))
		return p
	}

	channel, err := conn.Channel()
	if err != nil {
		log.Warn("Failed to open AMQP channel, continuing without notifications", zap.Error(err))
		conn.Close()
		return p
	}

	_, err = channel.QueueDeclare(
		notificationQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		log.Warn("Failed to declare notification queue", zap.Error(err))
		channel.Close()
		conn.Close()
		return p
	}

	p.conn = conn
	p.channel = channel
	p.enabled = true

	log.Info("Connected to AMQP", zap.String("queue", notificationQueue))
	return p
}

// Publish enqueues one event. Errors are returned for logging but
// callers treat delivery as best-effort.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return nil
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		"",                // default exchange
		notificationQueue, // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         string(event.Type),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return nil
	}
	p.enabled = false

	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
