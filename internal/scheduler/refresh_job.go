package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mgalanis/holdview/internal/datasource"
)

// RefreshJob re-fetches the holdings table from the external source,
// bypassing the cache. Each run carries a run ID so a failed refresh can be
// traced through the logs.
type RefreshJob struct {
	loader  *datasource.Loader
	timeout time.Duration
	log     zerolog.Logger
}

// NewRefreshJob creates a new table refresh job.
func NewRefreshJob(loader *datasource.Loader, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		loader:  loader,
		timeout: 2 * time.Minute,
		log:     log.With().Str("job", "table_refresh").Logger(),
	}
}

// Run executes the refresh, replacing the loaded table on success.
func (j *RefreshJob) Run() error {
	runID := uuid.NewString()
	started := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.loader.Load(ctx, true); err != nil {
		j.log.Error().
			Err(err).
			Str("run_id", runID).
			Msg("Scheduled refresh failed")
		return err
	}

	j.log.Info().
		Str("run_id", runID).
		Dur("duration_ms", time.Since(started)).
		Msg("Scheduled refresh completed")
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *RefreshJob) Name() string {
	return "table_refresh"
}
