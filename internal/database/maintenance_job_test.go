package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_data.db")
	db, err := New(Config{Path: path, Profile: ProfileCache, Name: "client_data"})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	_, err = db.Conn().Exec(`INSERT INTO kis_quotes (symbol, data, expires_at) VALUES ('005930', x'80', 0)`)
	require.NoError(t, err)

	job := NewMaintenanceJob(db, zerolog.Nop())
	assert.Equal(t, "client_data_maintenance", job.Name())
	assert.NoError(t, job.Run())

	require.NoError(t, db.IntegrityCheck(context.Background()))
	walFrames, checkpointed, err := db.Checkpoint(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, walFrames, 0)
	assert.LessOrEqual(t, checkpointed, walFrames)
}

func TestMaintenanceJob_ClosedDatabase(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "x.db"), Name: "client_data"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Error(t, NewMaintenanceJob(db, zerolog.Nop()).Run())
}
