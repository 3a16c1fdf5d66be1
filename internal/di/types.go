/**
 * Package di provides dependency injection type definitions.
 *
 * Container holds every long-lived dependency of the application. It is
 * created by Wire() and handed to the server and the CLI.
 */
package di

import (
	"github.com/aristath/riskgauge/internal/clientdata"
	"github.com/aristath/riskgauge/internal/clients/kis"
	"github.com/aristath/riskgauge/internal/config"
	"github.com/aristath/riskgauge/internal/database"
	"github.com/aristath/riskgauge/internal/modules/charts"
	"github.com/aristath/riskgauge/internal/modules/quotes"
	"github.com/aristath/riskgauge/internal/modules/risk"
	"github.com/aristath/riskgauge/internal/modules/symbols"
	"github.com/aristath/riskgauge/internal/scheduler"
)

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config

	// Databases (nil when the response cache is disabled)
	ClientDataDB   *database.DB
	ClientDataRepo *clientdata.Repository

	// Clients
	TokenProvider *kis.TokenProvider
	KISClient     *kis.Client

	// Services
	SymbolTable  *symbols.Table
	QuoteService *quotes.Service
	ChartService *charts.Service
	RiskService  *risk.Service

	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered background jobs
type JobInstances struct {
	// nil when the cache is disabled
	CacheCleanup     scheduler.Job
	CacheMaintenance scheduler.Job

	TokenRefresh scheduler.Job
}

// Close releases the container's resources. Safe on a partly built
// container.
func (c *Container) Close() error {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.ClientDataDB != nil {
		return c.ClientDataDB.Close()
	}
	return nil
}
