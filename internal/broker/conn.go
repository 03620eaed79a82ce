package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Setup prepares a fresh channel (confirms, QoS) before the topology is declared.
type Setup func(ch *amqp.Channel) error

// Open dials url, opens one channel, applies setup and declares the topology.
// Nothing is left open on failure.
func Open(url string, setup Setup) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: channel: %w", err)
	}

	if setup != nil {
		if err := setup(ch); err != nil {
			ch.Close()
			conn.Close()
			return nil, nil, err
		}
	}
	if err := DeclareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// reconnectBackOff grows from one second to thirty and never gives up on its own.
func reconnectBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return backoff.WithContext(b, ctx)
}

// Reconnect calls connect until it succeeds or ctx is done.
func Reconnect(ctx context.Context, connect func() error, logger *zap.Logger) error {
	return backoff.RetryNotify(connect, reconnectBackOff(ctx), func(err error, next time.Duration) {
		logger.Warn("RabbitMQ reconnect failed", zap.Error(err), zap.Duration("retry_in", next))
	})
}
