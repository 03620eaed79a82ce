package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	amqplib "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/broker"
	"github.com/himanshu8github/Neetcode/internal/domain"
)

var errDeliveriesClosed = errors.New("rabbitmq: delivery channel closed")

// Consumer reads rejudge requests and hands them to the worker pool as jobs
// carrying their own ack callbacks.
type Consumer struct {
	url      string
	prefetch int
	jobs     chan<- *domain.RejudgeJob
	logger   *zap.Logger

	mu      sync.Mutex
	conn    *amqplib.Connection
	channel *amqplib.Channel
	closed  bool
}

// NewConsumer connects and declares the topology. Deliveries are not
// acknowledged here; the worker pool calls Ack or Nack once the rejudge completes.
func NewConsumer(url string, prefetch int, jobs chan<- *domain.RejudgeJob, logger *zap.Logger) (*Consumer, error) {
	c := &Consumer{
		url:      url,
		prefetch: max(prefetch, 1),
		jobs:     jobs,
		logger:   logger,
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Consumer) connect() error {
	conn, ch, err := broker.Open(c.url, func(ch *amqplib.Channel) error {
		// Never hold more unacknowledged messages than there are workers.
		if err := ch.Qos(c.prefetch, 0, false); err != nil {
			return fmt.Errorf("rabbitmq: qos: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn, c.channel = conn, ch
	c.mu.Unlock()
	return nil
}

// Start consumes until ctx is done or Close is called, redialling when the
// broker drops the connection.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		err := c.consume(ctx)
		if err == nil || ctx.Err() != nil || c.isClosed() {
			return nil
		}

		c.logger.Warn("AMQP consumer lost connection, reconnecting", zap.Error(err))
		if err := broker.Reconnect(ctx, c.connect, c.logger); err != nil {
			return nil
		}
		c.logger.Info("AMQP consumer reconnected")
	}
}

// consume runs one session. It returns nil when ctx is done.
func (c *Consumer) consume(ctx context.Context) error {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		return errors.New("rabbitmq: channel is nil")
	}

	deliveries, err := ch.ConsumeWithContext(ctx, broker.RejudgeQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume: %w", err)
	}
	c.logger.Info("AMQP consumer started", zap.String("queue", broker.RejudgeQueue))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errDeliveriesClosed
			}
			if !c.dispatch(ctx, ch, d) {
				return nil
			}
		}
	}
}

// dispatch hands one delivery to the pool. It reports false when the consumer
// is shutting down.
func (c *Consumer) dispatch(ctx context.Context, ch *amqplib.Channel, d amqplib.Delivery) bool {
	msg, err := decodeRejudge(d.Body)
	if err != nil {
		c.logger.Error("Dropping malformed rejudge message", zap.Error(err), zap.ByteString("body", d.Body))
		_ = d.Nack(false, false) // dead-lettered
		return true
	}

	tag := d.DeliveryTag
	job := &domain.RejudgeJob{
		Message: msg,
		Ack:     func() error { return ch.Ack(tag, false) },
		Nack:    func(requeue bool) error { return ch.Nack(tag, false, requeue) },
	}

	select {
	case c.jobs <- job:
		return true
	case <-ctx.Done():
		_ = d.Nack(false, true)
		return false
	}
}

func decodeRejudge(body []byte) (*domain.RejudgeMessage, error) {
	var msg domain.RejudgeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, err
	}
	if msg.SubmissionID == uuid.Nil {
		return nil, errors.New("missing submission_id")
	}
	return &msg, nil
}

func (c *Consumer) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close shuts the channel and connection. It is safe to call more than once.
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if c.channel != nil {
		errs = append(errs, c.channel.Close())
	}
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
	}
	return errors.Join(errs...)
}
