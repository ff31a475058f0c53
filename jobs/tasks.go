package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskGrantsWarmup pre-populates the role grant cache.
	TaskGrantsWarmup = "grants:warmup"
)

// GrantsWarmupPayload configures a grant warmup run.
type GrantsWarmupPayload struct {
	// Reason is recorded in logs so scheduled and manual runs are
	// distinguishable.
	Reason string `json:"reason"`
}

// NewGrantsWarmupTask constructs an Asynq task.
func NewGrantsWarmupTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(GrantsWarmupPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGrantsWarmup, data), nil
}
