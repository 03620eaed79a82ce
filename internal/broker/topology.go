package broker

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker object names shared by the API (publisher) and the worker (consumer).
const (
	ExchangeName   = "neetcode.direct"
	RejudgeKey     = "rejudge"
	RejudgeQueue   = "submission_rejudge"
	DeadLetterName = "neetcode.dlx"
	DeadLetterQ    = "submission_rejudge.dlq"
)

// DeclareTopology declares the exchange, the rejudge quorum queue and its
// dead-letter queue. It is idempotent; both sides call it so either may start first.
func DeclareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}
	if err := ch.ExchangeDeclare(DeadLetterName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(DeadLetterQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare DLQ: %w", err)
	}
	if err := ch.QueueBind(DeadLetterQ, RejudgeKey, DeadLetterName, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind DLQ: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DeadLetterName,
		"x-dead-letter-routing-key": RejudgeKey,
		"x-queue-type":              "quorum",
	}
	if _, err := ch.QueueDeclare(RejudgeQueue, true, false, false, false, args); err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}
	if err := ch.QueueBind(RejudgeQueue, RejudgeKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue: %w", err)
	}
	return nil
}
