// Package queue provides a Redis-backed trigger and worker for scheduling
// import processing passes across processes.
package queue

import (
	"context"
	"fmt"

	importapp "github.com/bipcerto/backend/internal/application/import"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the Redis list the trigger and worker rendezvous on
const DefaultQueueKey = "import:process"

// Ensure RedisTrigger implements importapp.Trigger
var _ importapp.Trigger = (*RedisTrigger)(nil)

// RedisTrigger schedules processing passes by pushing job IDs onto a Redis
// list. Use it when the batch processor runs in a separate worker process.
type RedisTrigger struct {
	client *redis.Client
	key    string
}

// NewRedisTrigger creates a RedisTrigger on the given queue key; an empty
// key falls back to DefaultQueueKey
func NewRedisTrigger(client *redis.Client, key string) *RedisTrigger {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisTrigger{client: client, key: key}
}

// TriggerProcessing pushes the job onto the processing queue
func (t *RedisTrigger) TriggerProcessing(ctx context.Context, jobID uuid.UUID) error {
	if err := t.client.LPush(ctx, t.key, jobID.String()).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job %s: %w", jobID, err)
	}
	return nil
}
