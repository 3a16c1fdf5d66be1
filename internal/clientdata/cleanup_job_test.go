package clientdata

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupJobName(t *testing.T) {
	job := NewCleanupJob(NewRepository(setupTestDB(t)), zerolog.Nop())
	assert.Equal(t, "kis_cache_cleanup", job.Name())
}

func TestCleanupJobSweep(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	job := NewCleanupJob(repo, zerolog.Nop())

	repo.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	require.NoError(t, repo.Store(TableQuotes, "005930", quoteRow{}, TTLQuote))
	require.NoError(t, repo.Store(TableQuotes, "000660", quoteRow{}, TTLQuote))
	require.NoError(t, repo.Store(TableCandles, CandleKey("005930", "D"), quoteRow{}, TTLCandles))
	repo.now = time.Now
	require.NoError(t, repo.Store(TableQuotes, "035420", quoteRow{}, TTLQuote))
	require.NoError(t, repo.Store(TableStability, "005930", quoteRow{}, time.Hour))

	results, err := job.Sweep()
	require.NoError(t, err)

	assert.Equal(t, []SweepResult{
		{Table: TableQuotes, Expired: 2, Remaining: 1},
		{Table: TableCandles, Expired: 1, Remaining: 0},
		{Table: TableStability, Expired: 0, Remaining: 1},
		{Table: TableProfitability, Expired: 0, Remaining: 0},
	}, results)
}

func TestCleanupJobRun(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	job := NewCleanupJob(repo, zerolog.Nop())

	repo.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	for _, table := range AllTables {
		require.NoError(t, repo.Store(table, "expired", quoteRow{}, time.Hour))
	}
	repo.now = time.Now
	for _, table := range AllTables {
		require.NoError(t, repo.Store(table, "fresh", quoteRow{}, time.Hour))
	}

	require.NoError(t, job.Run())

	stats, err := repo.Stats()
	require.NoError(t, err)
	for _, table := range AllTables {
		assert.Equal(t, int64(1), stats[table], table)
	}
}

func TestCleanupJobRun_Empty(t *testing.T) {
	job := NewCleanupJob(NewRepository(setupTestDB(t)), zerolog.Nop())
	assert.NoError(t, job.Run())
}
