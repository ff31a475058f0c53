package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stafflane/stafflane/internal/jobs"
	"github.com/stafflane/stafflane/internal/roles"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// GrantsWarmupJob refreshes the role grant cache so authorization checks
// rarely fall back to the database.
type GrantsWarmupJob struct {
	Cache   *roles.GrantCache
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewGrantsWarmupJob wires dependencies for the warmup handler.
func NewGrantsWarmupJob(cache *roles.GrantCache, logger *slog.Logger) *GrantsWarmupJob {
	return &GrantsWarmupJob{Cache: cache, Logger: logger}
}

// Handle processes grant warmup tasks.
func (j *GrantsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Cache == nil {
		return errors.New("grants warmup: handler not configured")
	}
	var payload GrantsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("reason", payload.Reason))
	tracker := j.metrics().Track(TaskGrantsWarmup)
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if err := tracker.End(j.Cache.Warm(runCtx)); err != nil {
		logger.Error("grant warmup failed", slog.Any("error", err))
		return err
	}
	logger.Info("grant warmup completed", slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *GrantsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *GrantsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskGrantsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskGrantsWarmup))
}
