package importapp

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingProcessor struct {
	mu   sync.Mutex
	jobs []uuid.UUID
}

func (p *countingProcessor) ProcessBatch(ctx context.Context, jobID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, jobID)
	return nil
}

func TestGoroutineTrigger(t *testing.T) {
	processor := &countingProcessor{}
	trigger := NewGoroutineTrigger(processor, zap.NewNop())

	jobID := uuid.New()
	require.NoError(t, trigger.TriggerProcessing(context.Background(), jobID))
	trigger.Wait()

	require.Len(t, processor.jobs, 1)
	assert.Equal(t, jobID, processor.jobs[0])
}

func TestGoroutineTriggerSurvivesCancelledCaller(t *testing.T) {
	processor := &countingProcessor{}
	trigger := NewGoroutineTrigger(processor, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, trigger.TriggerProcessing(ctx, uuid.New()))
	trigger.Wait()

	assert.Len(t, processor.jobs, 1)
}
