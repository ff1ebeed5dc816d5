package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"pdfinsight/internal/app"
	"pdfinsight/internal/platform/rabbitmq"
)

// AnalysisWorker consumes full-analysis jobs. Messages are acked only after
// the service persisted a terminal job state; infrastructure failures nack
// with requeue so the job is retried. Redeliveries of already-finished jobs
// are recognized by the service and acked without rerunning.
type AnalysisWorker struct {
	conn      *amqp.Connection
	analysis  *app.AnalysisService
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAnalysisWorker(conn *amqp.Connection, analysis *app.AnalysisService, queueName string) *AnalysisWorker {
	return &AnalysisWorker{
		conn:      conn,
		analysis:  analysis,
		queueName: queueName,
	}
}

func (w *AnalysisWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	// One job at a time; a run holds an analyzer call open for a while.
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var msg rabbitmq.JobMessage
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					log.Printf("worker decode job message failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.analysis.Run(workerCtx, msg.JobID); err != nil {
					log.Printf("worker run job %d failed: %v", msg.JobID, err)
					_ = d.Nack(false, true)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *AnalysisWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
