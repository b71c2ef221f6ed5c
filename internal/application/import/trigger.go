package importapp

import (
	"context"
	"sync"

	"github.com/bipcerto/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchProcessor processes one claimed batch of staged rows for a job
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, jobID uuid.UUID) error
}

// Trigger schedules a processing pass for a job without blocking the
// caller. Both the Start phase and the batch processor fire it: the former
// to kick off processing, the latter to continue a partially processed job.
type Trigger interface {
	TriggerProcessing(ctx context.Context, jobID uuid.UUID) error
}

// GoroutineTrigger runs processing passes in-process. The pass runs on a
// detached context so finishing the HTTP request that fired it does not
// cancel the work.
type GoroutineTrigger struct {
	processor BatchProcessor
	log       *zap.Logger
	wg        sync.WaitGroup
}

// NewGoroutineTrigger creates a GoroutineTrigger for the given processor
func NewGoroutineTrigger(processor BatchProcessor, log *zap.Logger) *GoroutineTrigger {
	if log == nil {
		log = zap.NewNop()
	}
	return &GoroutineTrigger{processor: processor, log: log}
}

// TriggerProcessing schedules a processing pass and returns immediately
func (t *GoroutineTrigger) TriggerProcessing(ctx context.Context, jobID uuid.UUID) error {
	detached := context.WithoutCancel(ctx)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.processor.ProcessBatch(detached, jobID); err != nil {
			logger.WithLogger(detached, t.log).Error("processing pass failed",
				zap.String("job_id", jobID.String()),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Wait blocks until all scheduled passes have finished. Used by tests and
// by graceful shutdown.
func (t *GoroutineTrigger) Wait() {
	t.wg.Wait()
}
