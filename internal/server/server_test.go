package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/riskgauge/internal/clients/kis"
	"github.com/aristath/riskgauge/internal/config"
	"github.com/aristath/riskgauge/internal/di"
	"github.com/aristath/riskgauge/internal/domain"
	"github.com/aristath/riskgauge/internal/modules/charts"
	"github.com/aristath/riskgauge/internal/modules/quotes"
	"github.com/aristath/riskgauge/internal/modules/risk"
	"github.com/aristath/riskgauge/internal/modules/symbols"
	testingpkg "github.com/aristath/riskgauge/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	err       error
	refreshed int
}

func (f *fakeTokens) Refresh(ctx context.Context) error {
	f.refreshed++
	return f.err
}

func (f *fakeTokens) Status() kis.TokenStatus {
	if f.refreshed > 0 && f.err == nil {
		return kis.TokenStatus{Valid: true, ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	}
	return kis.TokenStatus{}
}

type fakeCache struct {
	err error
}

func (f fakeCache) Stats() (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[string]int64{"kis_quotes": 3}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	client := testingpkg.NewMockMarketDataClient()
	client.SetQuote("005930", testingpkg.NewQuoteFixture())
	client.SetStability("005930", testingpkg.NewStabilityFixture())
	client.SetProfitability("005930", testingpkg.NewProfitabilityFixture())
	client.SetCandles("005930", domain.PeriodDaily, testingpkg.NewCandleFixture(80, time.Now()))

	table := symbols.NewTable([]domain.Symbol{testingpkg.Samsung})
	log := zerolog.Nop()

	container := &di.Container{
		TokenProvider: kis.NewTokenProvider(kis.TokenConfig{BaseURL: "http://127.0.0.1:0"}, log),
		SymbolTable:   table,
		QuoteService:  quotes.NewService(client, table, log),
		ChartService:  charts.NewService(client, table, log),
		RiskService:   risk.NewService(client, table, log),
	}

	return New(Config{
		Log:       log,
		Config:    &config.Config{Port: 8000, DevMode: true},
		Container: container,
	})
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/system/health", http.StatusOK},
		{http.MethodGet, "/stocks", http.StatusOK},
		{http.MethodGet, "/stock/summary?query=005930", http.StatusOK},
		{http.MethodGet, "/chart/daily?query=005930", http.StatusOK},
		{http.MethodGet, "/chart/daily/indicators?query=005930", http.StatusOK},
		{http.MethodGet, "/stock/financial?query=005930", http.StatusOK},
		{http.MethodGet, "/stock/profitability?query=005930", http.StatusOK},
		{http.MethodGet, "/stock/volatility?query=005930", http.StatusOK},
		{http.MethodGet, "/stock/supply-risk?query=005930", http.StatusOK},
		{http.MethodGet, "/stock/risk-overview?query=005930", http.StatusOK},
		{http.MethodGet, "/stock/financial?query=999999", http.StatusNotFound},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestServer_RequestIDAndCORS(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "riskgauge", body["service"])
}

func TestSystemHandlers_Status(t *testing.T) {
	h := NewSystemHandlers(zerolog.Nop(), &fakeTokens{}, fakeCache{}, nil, 32)

	rec := httptest.NewRecorder()
	h.HandleSystemStatus(rec, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.CacheEnabled)
	assert.Equal(t, int64(3), resp.CacheEntries["kis_quotes"])
	assert.Equal(t, 32, resp.Symbols)
	assert.False(t, resp.Token.Valid)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, 0.0)
	assert.NotNil(t, resp.Jobs)
}

func TestSystemHandlers_Status_CacheError(t *testing.T) {
	h := NewSystemHandlers(zerolog.Nop(), &fakeTokens{}, fakeCache{err: errors.New("locked")}, nil, 0)

	rec := httptest.NewRecorder()
	h.HandleSystemStatus(rec, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
}

func TestSystemHandlers_TokenRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tokens := &fakeTokens{}
		h := NewSystemHandlers(zerolog.Nop(), tokens, nil, nil, 0)

		rec := httptest.NewRecorder()
		h.HandleTokenRefresh(rec, httptest.NewRequest(http.MethodPost, "/api/system/token/refresh", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, tokens.refreshed)
		assert.Contains(t, rec.Body.String(), `"valid":true`)
	})

	t.Run("auth failure", func(t *testing.T) {
		tokens := &fakeTokens{err: domain.ErrAuthentication}
		h := NewSystemHandlers(zerolog.Nop(), tokens, nil, nil, 0)

		rec := httptest.NewRecorder()
		h.HandleTokenRefresh(rec, httptest.NewRequest(http.MethodPost, "/api/system/token/refresh", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "UPSTREAM_AUTH_ERROR")
	})
}
