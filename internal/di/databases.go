// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/aristath/riskgauge/internal/clientdata"
	"github.com/aristath/riskgauge/internal/config"
	"github.com/aristath/riskgauge/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens and migrates the response cache database.
// With caching disabled the container is returned without one.
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{Config: cfg}

	if !cfg.Cache.Enabled {
		log.Info().Msg("Response cache disabled")
		return container, nil
	}

	// client_data.db - cached upstream responses, safe to delete
	clientDataDB, err := database.New(database.Config{
		Path:    cfg.Cache.Path,
		Profile: database.ProfileCache,
		Name:    "client_data",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client_data database: %w", err)
	}

	if err := clientDataDB.Migrate(); err != nil {
		clientDataDB.Close()
		return nil, fmt.Errorf("failed to migrate client_data database: %w", err)
	}

	container.ClientDataDB = clientDataDB
	container.ClientDataRepo = clientdata.NewRepository(clientDataDB.Conn())

	log.Info().Str("path", cfg.Cache.Path).Msg("Response cache ready")
	return container, nil
}
