package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// JobMessage is the wire payload carried on the analysis queue. Only the job
// identifier travels; the worker re-reads all state from the database, which
// makes redeliveries harmless.
type JobMessage struct {
	JobID uint `json:"job_id"`
}

// JobPublisher enqueues full-analysis jobs on a durable queue with
// persistent delivery, giving at-least-once dispatch to the worker.
type JobPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewJobPublisher(conn *amqp.Connection, queueName string) *JobPublisher {
	return &JobPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *JobPublisher) Publish(ctx context.Context, jobID uint) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(JobMessage{JobID: jobID})
	if err != nil {
		return fmt.Errorf("marshal job payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish job failed: %w", err)
	}
	return nil
}
