// Package events publishes dataset-change notifications so external
// consumers know when to recompute. The broker is optional; a nil publisher
// is a no-op.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const exchangeName = "doughdash.datasets"

// DatasetChanged is the message body emitted on every dataset mutation.
type DatasetChanged struct {
	Version int64     `json:"version"`
	Rows    int       `json:"rows"`
	At      time.Time `json:"at"`
}

// Publisher emits DatasetChanged events on an AMQP fanout exchange.
type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(
		exchangeName,
		"fanout",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, channel: channel}, nil
}

// PublishDatasetChanged notifies subscribers of a new dataset epoch. A nil
// receiver silently does nothing so callers need no broker to run.
func (p *Publisher) PublishDatasetChanged(ctx context.Context, event DatasetChanged) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = p.channel.PublishWithContext(ctx,
		exchangeName,
		"", // routing key unused by fanout
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   event.At,
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("publish dataset change: %w", err)
	}
	slog.InfoContext(ctx, "published dataset change", "version", event.Version, "rows", event.Rows)
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
