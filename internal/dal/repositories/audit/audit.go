package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/corray333/backend-labs/orderdesk/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/auditlog"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
)

// publisher is the part of *amqp.Channel the repository needs.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type AuditRabbitMQRepository struct {
	publisher publisher
	queue     string
}

// NewAuditRabbitMQRepository declares the queue and publishes to it.
func NewAuditRabbitMQRepository(client *rabbitmq.Client, queueName string) *AuditRabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return NewAuditRepositoryWithPublisher(client.Channel(), queue.Name)
}

func NewAuditRepositoryWithPublisher(p publisher, queue string) *AuditRabbitMQRepository {
	return &AuditRabbitMQRepository{
		publisher: p,
		queue:     queue,
	}
}

// LogSubmission publishes the submission as JSON, carrying the caller's
// trace context in the message headers.
func (r *AuditRabbitMQRepository) LogSubmission(ctx context.Context, submission auditlog.Submission) error {
	body, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, tableCarrier(headers))

	err = r.publisher.Publish(
		"",
		r.queue,
		false,
		false,
		amqp.Publishing{
			Headers:      headers,
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish submission: %w", err)
	}

	return nil
}

// tableCarrier adapts amqp headers to a propagation.TextMapCarrier.
type tableCarrier amqp.Table

func (c tableCarrier) Get(key string) string {
	v, _ := c[key].(string)
	return v
}

func (c tableCarrier) Set(key, value string) {
	c[key] = value
}

func (c tableCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}

	return keys
}
