package clientdata

import (
	"fmt"

	"github.com/rs/zerolog"
)

// SweepResult is what one cleanup pass did to a cache table.
type SweepResult struct {
	Table     string `json:"table"`
	Expired   int64  `json:"expired"`
	Remaining int64  `json:"remaining"`
}

// CleanupJob prunes expired KIS responses so the cache file does not grow
// with every symbol ever looked up.
type CleanupJob struct {
	repo *Repository
	log  zerolog.Logger
}

// NewCleanupJob creates the cache cleanup job for repo.
func NewCleanupJob(repo *Repository, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo: repo,
		log:  log.With().Str("job", "kis_cache_cleanup").Logger(),
	}
}

// Sweep deletes expired rows and reports per table, in AllTables order.
// Expired statement rows go too, which ends their use as a stale fallback.
func (j *CleanupJob) Sweep() ([]SweepResult, error) {
	expired, err := j.repo.DeleteAllExpired()
	if err != nil {
		return nil, fmt.Errorf("cache sweep: %w", err)
	}
	remaining, err := j.repo.Stats()
	if err != nil {
		return nil, fmt.Errorf("cache sweep: %w", err)
	}

	results := make([]SweepResult, 0, len(AllTables))
	for _, table := range AllTables {
		results = append(results, SweepResult{
			Table:     table,
			Expired:   expired[table],
			Remaining: remaining[table],
		})
	}
	return results, nil
}

// Run sweeps the cache and logs what was removed.
func (j *CleanupJob) Run() error {
	results, err := j.Sweep()
	if err != nil {
		j.log.Error().Err(err).Msg("KIS cache sweep failed")
		return err
	}

	var expired, remaining int64
	for _, r := range results {
		expired += r.Expired
		remaining += r.Remaining
		if r.Expired > 0 {
			j.log.Debug().
				Str("table", r.Table).
				Int64("expired", r.Expired).
				Int64("remaining", r.Remaining).
				Msg("Pruned KIS responses")
		}
	}

	j.log.Info().
		Int64("expired", expired).
		Int64("remaining", remaining).
		Msg("KIS cache sweep completed")
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "kis_cache_cleanup"
}
