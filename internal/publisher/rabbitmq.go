package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/broker"
	"github.com/himanshu8github/Neetcode/internal/domain"
)

const publishTimeout = 5 * time.Second

// Publisher sends rejudge requests for submissions left pending.
type Publisher interface {
	Publish(ctx context.Context, msg *domain.RejudgeMessage) error
	Ping(ctx context.Context) error
	Close() error
}

type rabbitPublisher struct {
	url    string
	logger *zap.Logger

	mu       sync.RWMutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	confirms chan amqp.Confirmation

	// publishMu pairs each publish with its own broker confirmation.
	publishMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRabbitMQPublisher connects, declares the topology and keeps the
// connection alive in the background until Close.
func NewRabbitMQPublisher(url string, logger *zap.Logger) (Publisher, error) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &rabbitPublisher{url: url, logger: logger, ctx: ctx, cancel: cancel}

	if err := p.connect(); err != nil {
		cancel()
		return nil, err
	}
	go p.keepAlive()

	return p, nil
}

func (p *rabbitPublisher) connect() error {
	conn, ch, err := broker.Open(p.url, func(ch *amqp.Channel) error {
		if err := ch.Confirm(false); err != nil {
			return fmt.Errorf("rabbitmq: enable confirms: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.conn, p.channel = conn, ch
	p.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.mu.Unlock()

	p.logger.Info("RabbitMQ publisher ready",
		zap.String("exchange", broker.ExchangeName),
		zap.String("routing_key", broker.RejudgeKey),
	)
	return nil
}

// keepAlive waits for the connection to drop and redials until Close.
func (p *rabbitPublisher) keepAlive() {
	for {
		p.mu.RLock()
		conn := p.conn
		p.mu.RUnlock()

		closed := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-p.ctx.Done():
			return
		case reason := <-closed:
			if p.ctx.Err() != nil {
				return
			}
			if reason != nil {
				p.logger.Warn("RabbitMQ connection lost", zap.String("reason", reason.Error()))
			} else {
				p.logger.Warn("RabbitMQ connection lost")
			}
		}

		p.mu.Lock()
		p.channel = nil
		p.mu.Unlock()

		if err := broker.Reconnect(p.ctx, p.connect, p.logger); err != nil {
			return
		}
		p.logger.Info("RabbitMQ publisher reconnected")
	}
}

func (p *rabbitPublisher) Publish(ctx context.Context, msg *domain.RejudgeMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal rejudge message: %w", err)
	}

	p.publishMu.Lock()
	defer p.publishMu.Unlock()

	p.mu.RLock()
	ch, confirms := p.channel, p.confirms
	p.mu.RUnlock()
	if ch == nil {
		return fmt.Errorf("%w: channel not available (reconnecting)", domain.ErrPublishFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx, broker.ExchangeName, broker.RejudgeKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.SubmissionID.String(),
		Timestamp:    msg.RequestedAt,
		Type:         msg.Reason,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
	}

	select {
	case confirm, ok := <-confirms:
		switch {
		case !ok:
			return fmt.Errorf("%w: channel closed before confirmation", domain.ErrPublishFailed)
		case !confirm.Ack:
			return fmt.Errorf("%w: broker nacked rejudge for %s", domain.ErrPublishFailed, msg.SubmissionID)
		}
	case <-ctx.Done():
		return fmt.Errorf("%w: no confirmation for %s: %v", domain.ErrPublishFailed, msg.SubmissionID, ctx.Err())
	}

	p.logger.Debug("Published rejudge request",
		zap.String("submission_id", msg.SubmissionID.String()),
		zap.String("reason", msg.Reason),
	)
	return nil
}

// Ping reports whether the broker connection is currently usable.
func (p *rabbitPublisher) Ping(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.conn == nil || p.conn.IsClosed() || p.channel == nil {
		return errors.New("rabbitmq: not connected")
	}
	return nil
}

func (p *rabbitPublisher) Close() error {
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
