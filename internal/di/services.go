// Package di provides dependency injection for clients and services.
package di

import (
	"fmt"

	"github.com/aristath/riskgauge/internal/clients/kis"
	"github.com/aristath/riskgauge/internal/config"
	"github.com/aristath/riskgauge/internal/modules/charts"
	"github.com/aristath/riskgauge/internal/modules/quotes"
	"github.com/aristath/riskgauge/internal/modules/risk"
	"github.com/aristath/riskgauge/internal/modules/symbols"
	"github.com/rs/zerolog"
)

// InitializeServices creates the upstream clients, the symbol table and the
// domain services. No network call is made here; the first token is fetched
// lazily.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	container.TokenProvider = kis.NewTokenProvider(kis.TokenConfig{
		BaseURL:   cfg.KIS.BaseURL,
		TokenPath: cfg.KIS.TokenPath,
		AppKey:    cfg.KIS.AppKey,
		AppSecret: cfg.KIS.AppSecret,
		CachePath: cfg.KIS.TokenCachePath,
		Timeout:   cfg.KIS.Timeout,
	}, log)

	container.KISClient = kis.NewClient(kis.Config{
		BaseURL:   cfg.KIS.BaseURL,
		AppKey:    cfg.KIS.AppKey,
		AppSecret: cfg.KIS.AppSecret,
		CustType:  cfg.KIS.CustType,
		RateLimit: cfg.KIS.RateLimit,
		Timeout:   cfg.KIS.Timeout,
	}, container.TokenProvider, container.ClientDataRepo, log)

	table, err := symbols.LoadFile(cfg.SymbolListPath)
	if err != nil {
		return fmt.Errorf("failed to load symbol list: %w", err)
	}
	container.SymbolTable = table
	log.Info().Int("symbols", table.Len()).Msg("Symbol table loaded")

	container.QuoteService = quotes.NewService(container.KISClient, table, log)
	container.ChartService = charts.NewService(container.KISClient, table, log)
	container.RiskService = risk.NewService(container.KISClient, table, log)

	if !cfg.HasCredentials() {
		log.Warn().Msg("KIS app key/secret not set; upstream calls will fail")
	}
	return nil
}
