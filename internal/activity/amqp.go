package activity

import (
	"context"
	"fmt"
	"io"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"boxoffice/pkg/logger"
)

// AMQPChannel is the part of *amqp.Channel the publisher uses
type AMQPChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes actions to a durable RabbitMQ queue through the
// default exchange. A failed publish drops the channel; the next action
// dials again.
type AMQPPublisher struct {
	mu    sync.Mutex
	queue string
	ch    AMQPChannel
	conn  io.Closer
	dial  func() (AMQPChannel, io.Closer, error)
	log   *logger.Logger
}

// NewAMQPPublisher connects to url and declares queue
func NewAMQPPublisher(url, queue string, log *logger.Logger) (*AMQPPublisher, error) {
	p := NewAMQPPublisherWithChannel(nil, queue, log)
	p.dial = func() (AMQPChannel, io.Closer, error) {
		return dialAMQP(url, queue)
	}

	ch, conn, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.ch, p.conn = ch, conn
	return p, nil
}

// NewAMQPPublisherWithChannel wraps an open channel
func NewAMQPPublisherWithChannel(ch AMQPChannel, queue string, log *logger.Logger) *AMQPPublisher {
	if log == nil {
		log = logger.GetDefault()
	}
	return &AMQPPublisher{ch: ch, queue: queue, log: log}
}

func dialAMQP(url, queue string) (AMQPChannel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	// durable so queued actions survive a broker restart
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return ch, conn, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, action *Action) {
	body, err := action.ToJSON()
	if err != nil {
		p.log.ErrorWithContext(ctx, "Failed to marshal activity", err, map[string]interface{}{"action": string(action.Type)})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		if p.dial == nil {
			return
		}
		ch, conn, err := p.dial()
		if err != nil {
			p.log.ErrorWithContext(ctx, "Failed to reconnect activity publisher", err, map[string]interface{}{"queue": p.queue})
			return
		}
		p.ch, p.conn = ch, conn
	}

	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, publishing(action, body)); err != nil {
		p.log.ErrorWithContext(ctx, "Failed to publish activity", err, map[string]interface{}{
			"action": string(action.Type),
			"queue":  p.queue,
		})
		p.closeLocked()
		return
	}

	p.log.DebugContext(ctx, "Activity published", "queue", p.queue, "action", string(action.Type))
}

func publishing(action *Action, body []byte) amqp.Publishing {
	headers := amqp.Table{
		"action_type": string(action.Type),
		"user":        action.PartitionKey(),
	}
	if action.RequestID != "" {
		headers["request_id"] = action.RequestID
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    action.ID.String(),
		Timestamp:    action.Timestamp,
		Type:         string(action.Type),
		AppId:        "boxoffice-web",
		Headers:      headers,
		Body:         body,
	}
}

func (p *AMQPPublisher) closeLocked() error {
	var firstErr error
	if p.ch != nil {
		firstErr = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.conn = nil
	}
	return firstErr
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.closeLocked(); err != nil {
		return fmt.Errorf("failed to close RabbitMQ publisher: %w", err)
	}
	return nil
}
