// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"
	"time"

	"github.com/aristath/riskgauge/internal/clientdata"
	"github.com/aristath/riskgauge/internal/clients/kis"
	"github.com/aristath/riskgauge/internal/config"
	"github.com/aristath/riskgauge/internal/database"
	"github.com/aristath/riskgauge/internal/scheduler"
	"github.com/rs/zerolog"
)

// TokenRefreshWindow is how close to expiry the refresh job renews a token.
const TokenRefreshWindow = 45 * time.Minute

// RegisterJobs creates the background jobs and adds them to a new scheduler.
// The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	instances := &JobInstances{}

	if container.ClientDataRepo != nil {
		instances.CacheCleanup = clientdata.NewCleanupJob(container.ClientDataRepo, log)
		if err := sched.AddJob(cfg.CacheCleanupSchedule, instances.CacheCleanup); err != nil {
			return nil, fmt.Errorf("failed to register cache cleanup job: %w", err)
		}

		instances.CacheMaintenance = database.NewMaintenanceJob(container.ClientDataDB, log)
		if err := sched.AddJob(cfg.CacheMaintenanceSchedule, instances.CacheMaintenance); err != nil {
			return nil, fmt.Errorf("failed to register cache maintenance job: %w", err)
		}
	}

	instances.TokenRefresh = kis.NewTokenRefreshJob(container.TokenProvider, TokenRefreshWindow, log)
	if err := sched.AddJob(cfg.TokenRefreshSchedule, instances.TokenRefresh); err != nil {
		return nil, fmt.Errorf("failed to register token refresh job: %w", err)
	}

	container.Scheduler = sched
	log.Info().Strs("jobs", sched.Jobs()).Msg("Jobs registered")
	return instances, nil
}
