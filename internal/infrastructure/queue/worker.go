package queue

import (
	"context"
	"errors"
	"time"

	importapp "github.com/bipcerto/backend/internal/application/import"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Worker consumes job IDs from the processing queue and runs one processing
// pass per message. Continuations for partially processed jobs arrive as new
// messages, so a single worker naturally drains a job batch by batch.
type Worker struct {
	client    *redis.Client
	key       string
	processor importapp.BatchProcessor
	log       *zap.Logger
}

// NewWorker creates a Worker for the given queue key
func NewWorker(client *redis.Client, key string, processor importapp.BatchProcessor, log *zap.Logger) *Worker {
	if key == "" {
		key = DefaultQueueKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{client: client, key: key, processor: processor, log: log}
}

// Run blocks consuming the queue until the context is cancelled
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("import worker started", zap.String("queue", w.key))

	for {
		if err := ctx.Err(); err != nil {
			w.log.Info("import worker stopping")
			return err
		}

		res, err := w.client.BRPop(ctx, 5*time.Second, w.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.log.Info("import worker stopping")
				return err
			}
			w.log.Error("queue read failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		// BRPop returns [key, value]
		if len(res) != 2 {
			continue
		}
		jobID, err := uuid.Parse(res[1])
		if err != nil {
			w.log.Warn("discarding malformed queue message", zap.String("payload", res[1]))
			continue
		}

		if err := w.processor.ProcessBatch(ctx, jobID); err != nil {
			w.log.Error("processing pass failed",
				zap.String("job_id", jobID.String()),
				zap.Error(err),
			)
		}
	}
}
