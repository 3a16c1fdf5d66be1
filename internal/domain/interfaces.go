package domain

import "context"

// MarketDataClient defines the upstream quote and statement calls.
// Implemented by kis.Client; declared here so services and tests do not
// depend on the HTTP client.
type MarketDataClient interface {
	// InquirePrice returns the current quote row (tr FHKST01010100)
	InquirePrice(ctx context.Context, symbol string) (Record, error)

	// InquireDailyPrice returns OHLCV rows, most recent first
	InquireDailyPrice(ctx context.Context, symbol string, period Period) ([]Record, error)

	// StabilityRatio returns stability ratio rows, most recent report first
	StabilityRatio(ctx context.Context, symbol string) ([]Record, error)

	// ProfitRatio returns profitability ratio rows, most recent report first
	ProfitRatio(ctx context.Context, symbol string) ([]Record, error)
}

// SymbolResolver maps a company name or ticker to a listed symbol.
// Returns ErrSymbolNotFound when nothing matches.
type SymbolResolver interface {
	Resolve(query string) (Symbol, error)
}
