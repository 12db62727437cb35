// Package service holds the broker-facing side of the simulator: the
// publisher that pushes committed-PNR events to RabbitMQ.  Errors are
// logged and returned so callers can ignore failures without
// interrupting the command flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/airline-pnr-terminal/internal/queue"
	"github.com/iliyamo/airline-pnr-terminal/pkg/logger"
)

// QueuePublisher publishes PNRCommittedEvents to a named durable
// queue.  Each publish dials a fresh connection; commit volume in the
// simulator is far too low for pooling to matter.
type QueuePublisher struct {
	url   string
	queue string
	log   logger.Logger
}

// NewQueuePublisher returns a publisher for the given broker URL and
// queue name.
func NewQueuePublisher(url, queue string, log logger.Logger) *QueuePublisher {
	return &QueuePublisher{url: url, queue: queue, log: log}
}

// PublishPNRCommitted pushes one event, marked persistent.  Any error
// is logged and returned so the caller can choose to ignore it.
func (p *QueuePublisher) PublishPNRCommitted(ctx context.Context, event q.PNRCommittedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq dial failed", "error", err.Error())
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq channel open failed", "error", err.Error())
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.log.Warn("rabbitmq queue declare failed", "queue", p.queue, "error", err.Error())
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("marshal event failed", "error", err.Error())
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Warn("rabbitmq publish failed", "queue", p.queue, "error", err.Error())
		return err
	}
	return nil
}
