package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// walWarnFrames is the WAL size past which a passive checkpoint that could
// not finish is worth a warning.
const walWarnFrames = 1000

// MaintenanceJob checks a database's integrity and checkpoints its WAL.
type MaintenanceJob struct {
	db  *DB
	log zerolog.Logger
}

// NewMaintenanceJob creates a maintenance job for db
func NewMaintenanceJob(db *DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:  db,
		log: log.With().Str("job", "db_maintenance").Str("database", db.Name()).Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return j.db.Name() + "_maintenance"
}

// Run executes quick_check then a passive WAL checkpoint
func (j *MaintenanceJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.db.IntegrityCheck(ctx); err != nil {
		j.log.Error().Err(err).Msg("Integrity check failed")
		return err
	}

	walFrames, checkpointed, err := j.db.Checkpoint(ctx)
	if err != nil {
		j.log.Warn().Err(err).Msg("Failed to checkpoint WAL")
		return err
	}

	if walFrames > walWarnFrames && checkpointed < walFrames {
		j.log.Warn().
			Int("wal_frames", walFrames).
			Int("checkpointed", checkpointed).
			Msg("WAL file is large, checkpoint incomplete")
	} else {
		j.log.Debug().
			Int("wal_frames", walFrames).
			Int("checkpointed", checkpointed).
			Msg("WAL checkpoint status OK")
	}
	return nil
}
