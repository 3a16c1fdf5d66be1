package kis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aristath/riskgauge/internal/api"
	"github.com/aristath/riskgauge/internal/clientdata"
	"github.com/aristath/riskgauge/internal/domain"
	testingpkg "github.com/aristath/riskgauge/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticTokens hands out numbered tokens and counts invalidations.
type staticTokens struct {
	mu          sync.Mutex
	generation  int
	invalidated int
	err         error
}

func (s *staticTokens) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("token-%d", s.generation), nil
}

func (s *staticTokens) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated++
	s.generation++
	return nil
}

func writeEnvelope(w http.ResponseWriter, status int, rtCd, msgCd, msg string, output any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"rt_cd":  rtCd,
		"msg_cd": msgCd,
		"msg1":   msg,
		"output": output,
	})
}

func newTestClient(serverURL string, tokens TokenSource, cache *clientdata.Repository) *Client {
	return NewClient(Config{
		BaseURL:   serverURL,
		AppKey:    "app-key",
		AppSecret: "app-secret",
	}, tokens, cache, zerolog.New(nil).Level(zerolog.Disabled))
}

func newTestCache(t *testing.T) *clientdata.Repository {
	t.Helper()
	db, cleanup := testingpkg.NewTestDB(t, "client_data")
	t.Cleanup(cleanup)
	return clientdata.NewRepository(db.Conn())
}

func TestInquirePrice_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathInquirePrice, r.URL.Path)
		assert.Equal(t, "Bearer token-0", r.Header.Get("authorization"))
		assert.Equal(t, "app-key", r.Header.Get("appkey"))
		assert.Equal(t, "app-secret", r.Header.Get("appsecret"))
		assert.Equal(t, "FHKST01010100", r.Header.Get("tr_id"))
		assert.Equal(t, "P", r.Header.Get("custtype"))
		assert.Equal(t, "J", r.URL.Query().Get("fid_cond_mrkt_div_code"))
		assert.Equal(t, "005930", r.URL.Query().Get("fid_input_iscd"))

		writeEnvelope(w, http.StatusOK, "0", "MCA00000", "정상처리 되었습니다.", map[string]any{
			"stck_prpr":     "71500",
			"prdy_ctrt":     "-1.24",
			"hts_frgn_ehrt": "53.41",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, &staticTokens{}, nil)
	rec, err := client.InquirePrice(context.Background(), "005930")
	require.NoError(t, err)
	assert.Equal(t, "71500", rec["stck_prpr"])
	assert.Equal(t, "53.41", rec["hts_frgn_ehrt"])
}

func TestInquireDailyPrice_Params(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathInquireDailyPrice, r.URL.Path)
		assert.Equal(t, "FHKST01010400", r.Header.Get("tr_id"))
		assert.Equal(t, "W", r.URL.Query().Get("fid_period_div_code"))
		assert.Equal(t, "1", r.URL.Query().Get("fid_org_adj_prc"))

		writeEnvelope(w, http.StatusOK, "0", "", "", []map[string]any{
			{"stck_bsop_date": "20250110", "stck_clpr": "100"},
			{"stck_bsop_date": "20250103", "stck_clpr": "90"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, &staticTokens{}, nil)
	rows, err := client.InquireDailyPrice(context.Background(), "005930", domain.PeriodWeekly)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "20250110", rows[0]["stck_bsop_date"])
}

func TestStatements_Params(t *testing.T) {
	tests := []struct {
		name string
		call func(c *Client) ([]domain.Record, error)
		path string
		trID string
	}{
		{"stability", func(c *Client) ([]domain.Record, error) { return c.StabilityRatio(context.Background(), "000660") }, pathStabilityRatio, trStabilityRatio},
		{"profitability", func(c *Client) ([]domain.Record, error) { return c.ProfitRatio(context.Background(), "000660") }, pathProfitRatio, trProfitRatio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, tt.trID, r.Header.Get("tr_id"))
				assert.Equal(t, "1", r.URL.Query().Get("fid_div_cls_code"))
				writeEnvelope(w, http.StatusOK, "0", "", "", []map[string]any{{"stac_yymm": "202409"}})
			}))
			defer server.Close()

			rows, err := tt.call(newTestClient(server.URL, &staticTokens{}, nil))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "202409", rows[0]["stac_yymm"])
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "1", "EGW00201", "초당 거래건수를 초과하였습니다.", nil)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, &staticTokens{}, nil).InquirePrice(context.Background(), "005930")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)

	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, "EGW00201", upErr.Code)
	assert.Equal(t, trInquirePrice, upErr.TrID)
}

func TestNon2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, &staticTokens{}, nil).InquirePrice(context.Background(), "005930")
	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadGateway, upErr.StatusCode)
}

func TestConnectionRefusedIsRetryableUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := newTestClient(addr, &staticTokens{}, nil).InquirePrice(context.Background(), "005930")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)

	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, trInquirePrice, upErr.TrID)
	assert.Zero(t, upErr.StatusCode)
	assert.NotNil(t, upErr.Err)

	status, body := api.Classify(err)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, api.CodeUpstream, body.Code)
	assert.True(t, body.Retryable)
}

func TestMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, &staticTokens{}, nil).InquirePrice(context.Background(), "005930")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestExpiredTokenRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("authorization") == "Bearer token-0" {
			writeEnvelope(w, http.StatusInternalServerError, "1", codeTokenExpired, "기간이 만료된 token 입니다.", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "0", "", "", map[string]any{"stck_prpr": "1"})
	}))
	defer server.Close()

	tokens := &staticTokens{}
	rec, err := newTestClient(server.URL, tokens, nil).InquirePrice(context.Background(), "005930")
	require.NoError(t, err)
	assert.Equal(t, "1", rec["stck_prpr"])
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 1, tokens.invalidated)
}

func TestUnauthorizedRetriesOnlyOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, &staticTokens{}, nil).InquirePrice(context.Background(), "005930")
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenFailureIsAuthenticationError(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", &staticTokens{err: fmt.Errorf("%w: denied", domain.ErrAuthentication)}, nil)

	_, err := client.InquirePrice(context.Background(), "005930")
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestCache_QuoteServedFromCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEnvelope(w, http.StatusOK, "0", "", "", map[string]any{"stck_prpr": "71500"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, &staticTokens{}, newTestCache(t))
	for i := 0; i < 3; i++ {
		rec, err := client.InquirePrice(context.Background(), "005930")
		require.NoError(t, err)
		assert.Equal(t, "71500", rec["stck_prpr"])
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_StatementStaleFallback(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeEnvelope(w, http.StatusOK, "0", "", "", []map[string]any{{"stac_yymm": "202406", "lblt_rate": "30.1"}})
	}))
	defer server.Close()

	cache := newTestCache(t)
	client := newTestClient(server.URL, &staticTokens{}, cache)

	_, err := client.StabilityRatio(context.Background(), "005930")
	require.NoError(t, err)

	// Expire the entry, then make the upstream fail.
	var rows []domain.Record
	found, err := cache.Get(clientdata.TableStability, "005930", &rows)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, cache.Store(clientdata.TableStability, "005930", rows, -time.Minute))
	fail.Store(true)

	rows, err = client.StabilityRatio(context.Background(), "005930")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "30.1", rows[0]["lblt_rate"])
}

func TestCache_QuoteHasNoStaleFallback(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeEnvelope(w, http.StatusOK, "0", "", "", map[string]any{"stck_prpr": "1"})
	}))
	defer server.Close()

	cache := newTestCache(t)
	client := newTestClient(server.URL, &staticTokens{}, cache)

	_, err := client.InquirePrice(context.Background(), "005930")
	require.NoError(t, err)
	require.NoError(t, cache.Store(clientdata.TableQuotes, "005930", domain.Record{"stck_prpr": "1"}, -time.Minute))
	fail.Store(true)

	_, err = client.InquirePrice(context.Background(), "005930")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestRateLimiterSpacesRequests(t *testing.T) {
	var mu sync.Mutex
	var times []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		writeEnvelope(w, http.StatusOK, "0", "", "", map[string]any{})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, RateLimit: 10}, &staticTokens{}, nil, zerolog.Nop())
	for i := 0; i < 3; i++ {
		_, err := client.InquirePrice(context.Background(), "005930")
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, times, 3)
	assert.GreaterOrEqual(t, times[2].Sub(times[0]), 150*time.Millisecond)
}

func TestDecodeRows_SingleObject(t *testing.T) {
	rows, err := decodeRows(json.RawMessage(`{"stac_yymm":"202412"}`), "X")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "202412", rows[0]["stac_yymm"])

	rows, err = decodeRows(nil, "X")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = decodeRows(json.RawMessage(`"oops"`), "X")
	assert.Error(t, err)
}
