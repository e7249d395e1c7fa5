package worker

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"eidbi-query-system/internal/app"
	"eidbi-query-system/internal/model"
)

// RefreshMessage is the batch format the external scraping pipeline
// publishes to the corpus refresh queue.
type RefreshMessage struct {
	Replace bool                   `json:"replace"`
	Chunks  []model.Chunk          `json:"chunks"`
	Facts   []model.StructuredFact `json:"facts"`
}

// CorpusRefreshWorker consumes scraped chunk/fact batches and applies them
// through the ingest service, which swaps the snapshot atomically.
type CorpusRefreshWorker struct {
	conn      *amqp.Connection
	ingest    *app.IngestService
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCorpusRefreshWorker(conn *amqp.Connection, ingest *app.IngestService, queueName string) *CorpusRefreshWorker {
	return &CorpusRefreshWorker{
		conn:      conn,
		ingest:    ingest,
		queueName: queueName,
	}
}

func (w *CorpusRefreshWorker) Start(ctx context.Context) error {
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

				var msg RefreshMessage
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					log.Printf("refresh worker decode failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				result, err := w.ingest.Ingest(workerCtx, msg.Chunks, msg.Facts, msg.Replace)
				if err != nil {
					log.Printf("refresh worker apply batch failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				log.Printf("corpus refreshed: %d chunks, %d facts (replace=%t)",
					result.CorpusChunks, result.CorpusFacts, msg.Replace)

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *CorpusRefreshWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
