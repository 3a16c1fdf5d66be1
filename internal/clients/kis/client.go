// Package kis provides a client for the Korea Investment & Securities Open API.
//
// Only the domestic-stock quotation and financial-ratio endpoints are
// implemented. Every call is authenticated with an OAuth2 access token,
// rate limited, and optionally served from the client data cache.
package kis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aristath/riskgauge/internal/clientdata"
	"github.com/aristath/riskgauge/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://openapi.koreainvestment.com:9443"

	// msg_cd returned when the bearer token has expired
	codeTokenExpired = "EGW00123"

	maxLoggedBody = 500
)

// TokenSource supplies bearer tokens. Implemented by *TokenProvider.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate() error
}

// Config holds client settings
type Config struct {
	BaseURL   string
	AppKey    string
	AppSecret string
	CustType  string
	RateLimit float64 // Requests per second, 0 disables limiting
	Timeout   time.Duration
}

// Client is the KIS Open API client.
type Client struct {
	baseURL    string
	appKey     string
	appSecret  string
	custType   string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	cacheRepo  *clientdata.Repository
	log        zerolog.Logger
}

// NewClient creates a new KIS client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(cfg Config, tokens TokenSource, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	custType := cfg.CustType
	if custType == "" {
		custType = "P"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Client{
		baseURL:    baseURL,
		appKey:     cfg.AppKey,
		appSecret:  cfg.AppSecret,
		custType:   custType,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		cacheRepo:  cacheRepo,
		log:        log.With().Str("client", "kis").Logger(),
	}
}

// envelope is the common KIS response wrapper.
type envelope struct {
	RtCd   string          `json:"rt_cd"`
	MsgCd  string          `json:"msg_cd"`
	Msg1   string          `json:"msg1"`
	Output json.RawMessage `json:"output"`
}

// get performs an authenticated GET and returns the raw output payload.
// An expired token is invalidated and the call retried once.
func (c *Client) get(ctx context.Context, path, trID string, params url.Values) (json.RawMessage, error) {
	callID := uuid.NewString()
	log := c.log.With().
		Str("call_id", callID).
		Str("tr_id", trID).
		Str("symbol", params.Get("fid_input_iscd")).
		Logger()

	out, err := c.do(ctx, log, path, trID, params)
	if err != nil && isTokenExpired(err) {
		log.Warn().Msg("Access token rejected, refreshing and retrying once")
		if invErr := c.tokens.Invalidate(); invErr != nil {
			log.Warn().Err(invErr).Msg("Failed to invalidate token")
		}
		out, err = c.do(ctx, log, path, trID, params)
	}
	return out, err
}

func (c *Client) do(ctx context.Context, log zerolog.Logger, path, trID string, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("content-type", "application/json; charset=utf-8")
	req.Header.Set("authorization", "Bearer "+token)
	req.Header.Set("appkey", c.appKey)
	req.Header.Set("appsecret", c.appSecret)
	req.Header.Set("tr_id", trID)
	req.Header.Set("custtype", c.custType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", path).Msg("KIS request failed")
		return nil, &domain.UpstreamError{TrID: trID, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{
			TrID:       trID,
			StatusCode: resp.StatusCode,
			Message:    "failed to read response",
			Err:        err,
		}
	}

	log.Debug().
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("KIS call completed")

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().
			Int("status_code", resp.StatusCode).
			Str("status", resp.Status).
			Str("response_body", truncate(body, maxLoggedBody)).
			Str("url", path).
			Msg("KIS API returned non-2xx status")
		upErr := &domain.UpstreamError{TrID: trID, StatusCode: resp.StatusCode, Message: resp.Status}
		if decodeErr == nil {
			upErr.Code, upErr.Message = env.MsgCd, env.Msg1
		}
		return nil, upErr
	}

	if decodeErr != nil {
		return nil, &domain.UpstreamError{
			TrID:       trID,
			StatusCode: resp.StatusCode,
			Message:    "malformed response: " + decodeErr.Error(),
		}
	}

	if env.RtCd != "0" {
		log.Warn().
			Str("rt_cd", env.RtCd).
			Str("msg_cd", env.MsgCd).
			Str("msg1", env.Msg1).
			Msg("KIS API returned an error envelope")
		return nil, &domain.UpstreamError{
			TrID:       trID,
			StatusCode: resp.StatusCode,
			Code:       env.MsgCd,
			Message:    env.Msg1,
		}
	}

	return env.Output, nil
}

func isTokenExpired(err error) bool {
	var upErr *domain.UpstreamError
	if !errors.As(err, &upErr) {
		return false
	}
	return upErr.StatusCode == http.StatusUnauthorized || upErr.Code == codeTokenExpired
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
