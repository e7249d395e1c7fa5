package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"eidbi-query-system/internal/model"
	"eidbi-query-system/internal/repository"
)

// FeedbackPersistWorker consumes published feedback records and persists
// them, keeping the feedback write path off the request goroutine.
type FeedbackPersistWorker struct {
	conn      *amqp.Connection
	repo      *repository.FeedbackRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewFeedbackPersistWorker(conn *amqp.Connection, repo *repository.FeedbackRepository, queueName string) *FeedbackPersistWorker {
	return &FeedbackPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *FeedbackPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	deliveries, ch, err := consumeQueue(w.conn, w.queueName)
	if err != nil {
		cancel()
		return err
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

				var record model.FeedbackRecord
				if err := json.Unmarshal(d.Body, &record); err != nil {
					log.Printf("feedback worker decode failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Create(&record); err != nil {
					log.Printf("feedback worker persist failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *FeedbackPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

// consumeQueue declares a durable queue and opens a manual-ack consumer.
func consumeQueue(conn *amqp.Connection, queueName string) (<-chan amqp.Delivery, *amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("consume queue failed: %w", err)
	}
	return deliveries, ch, nil
}
