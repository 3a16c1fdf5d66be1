package testing

import (
	"context"
	"sync"

	"github.com/aristath/riskgauge/internal/domain"
)

// MockMarketDataClient is an in-memory domain.MarketDataClient.
// Unset data yields empty results; SetError makes every call fail.
type MockMarketDataClient struct {
	mu            sync.RWMutex
	quotes        map[string]domain.Record
	candles       map[string][]domain.Record
	stability     map[string][]domain.Record
	profitability map[string][]domain.Record
	err           error
	calls         map[string]int
}

// NewMockMarketDataClient creates an empty mock client
func NewMockMarketDataClient() *MockMarketDataClient {
	return &MockMarketDataClient{
		quotes:        make(map[string]domain.Record),
		candles:       make(map[string][]domain.Record),
		stability:     make(map[string][]domain.Record),
		profitability: make(map[string][]domain.Record),
		calls:         make(map[string]int),
	}
}

// SetQuote sets the inquire-price row for symbol
func (m *MockMarketDataClient) SetQuote(symbol string, rec domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[symbol] = rec
}

// SetCandles sets the daily-price rows for symbol and period
func (m *MockMarketDataClient) SetCandles(symbol string, period domain.Period, rows []domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candles[symbol+":"+string(period)] = rows
}

// SetStability sets the stability-ratio rows for symbol
func (m *MockMarketDataClient) SetStability(symbol string, rows []domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stability[symbol] = rows
}

// SetProfitability sets the profit-ratio rows for symbol
func (m *MockMarketDataClient) SetProfitability(symbol string, rows []domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profitability[symbol] = rows
}

// SetError sets the error to return
func (m *MockMarketDataClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times method was called
func (m *MockMarketDataClient) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

func (m *MockMarketDataClient) record(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
	return m.err
}

// InquirePrice returns the configured quote
func (m *MockMarketDataClient) InquirePrice(ctx context.Context, symbol string) (domain.Record, error) {
	if err := m.record("InquirePrice"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.quotes[symbol]; ok {
		return rec, nil
	}
	return domain.Record{}, nil
}

// InquireDailyPrice returns the configured candle rows
func (m *MockMarketDataClient) InquireDailyPrice(ctx context.Context, symbol string, period domain.Period) ([]domain.Record, error) {
	if err := m.record("InquireDailyPrice"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.candles[symbol+":"+string(period)], nil
}

// StabilityRatio returns the configured stability rows
func (m *MockMarketDataClient) StabilityRatio(ctx context.Context, symbol string) ([]domain.Record, error) {
	if err := m.record("StabilityRatio"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stability[symbol], nil
}

// ProfitRatio returns the configured profitability rows
func (m *MockMarketDataClient) ProfitRatio(ctx context.Context, symbol string) ([]domain.Record, error) {
	if err := m.record("ProfitRatio"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profitability[symbol], nil
}

var _ domain.MarketDataClient = (*MockMarketDataClient)(nil)

// MockSymbolResolver resolves from a fixed list by exact name or code.
type MockSymbolResolver struct {
	Symbols []domain.Symbol
}

// Resolve returns the first symbol whose name or code equals query
func (m *MockSymbolResolver) Resolve(query string) (domain.Symbol, error) {
	for _, s := range m.Symbols {
		if s.Name == query || s.Code == query {
			return s, nil
		}
	}
	return domain.Symbol{}, domain.ErrSymbolNotFound
}

var _ domain.SymbolResolver = (*MockSymbolResolver)(nil)
