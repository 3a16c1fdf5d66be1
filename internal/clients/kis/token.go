package kis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aristath/riskgauge/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// Tokens are treated as expired this long before the upstream says so
	expiryMargin = 60 * time.Second
	// Used when the token response carries no expires_in
	defaultTokenLifetime = time.Hour
)

// CachedToken is the on-disk token format.
type CachedToken struct {
	AccessToken string  `json:"access_token"`
	ExpiresAt   float64 `json:"expires_at"` // Unix seconds
}

// Expiry returns ExpiresAt as a time.
func (t CachedToken) Expiry() time.Time {
	sec := int64(t.ExpiresAt)
	nsec := int64((t.ExpiresAt - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// ValidAt reports whether the token can still be used at now.
func (t CachedToken) ValidAt(now time.Time) bool {
	return t.AccessToken != "" && now.Before(t.Expiry())
}

// TokenFile persists the last issued token as JSON.
type TokenFile struct {
	path string
}

// NewTokenFile returns a store backed by path. An empty path disables
// persistence.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// Load reads the cached token. A missing file yields nil, nil.
func (f *TokenFile) Load() (*CachedToken, error) {
	if f.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}
	var tok CachedToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token cache %s: %w", f.path, err)
	}
	return &tok, nil
}

// Save writes the token atomically.
func (f *TokenFile) Save(tok CachedToken) error {
	if f.path == "" {
		return nil
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create token cache directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace token cache: %w", err)
	}
	return nil
}

// Remove deletes the cached token, if any.
func (f *TokenFile) Remove() error {
	if f.path == "" {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token cache: %w", err)
	}
	return nil
}

// TokenStatus describes the token currently held in memory.
type TokenStatus struct {
	Valid     bool      `json:"valid"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// TokenProvider issues and caches KIS access tokens (OAuth2 client
// credentials). Lookup order is memory, then the token file, then the token
// endpoint. Safe for concurrent use; at most one fetch runs at a time.
type TokenProvider struct {
	oauth      *clientcredentials.Config
	file       *TokenFile
	httpClient *http.Client
	log        zerolog.Logger
	now        func() time.Time

	mu      sync.Mutex
	current *CachedToken
}

// TokenConfig holds what the token endpoint needs.
type TokenConfig struct {
	BaseURL   string
	TokenPath string
	AppKey    string
	AppSecret string
	CachePath string
	Timeout   time.Duration
}

// NewTokenProvider creates a token provider. Nothing is fetched until Init or
// the first Token call.
func NewTokenProvider(cfg TokenConfig, log zerolog.Logger) *TokenProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TokenProvider{
		oauth: &clientcredentials.Config{
			ClientID:     cfg.AppKey,
			ClientSecret: cfg.AppSecret,
			TokenURL:     cfg.BaseURL + cfg.TokenPath,
			// KIS reads its own parameter names
			EndpointParams: url.Values{
				"appkey":    {cfg.AppKey},
				"appsecret": {cfg.AppSecret},
			},
			AuthStyle: oauth2.AuthStyleInParams,
		},
		file:       NewTokenFile(cfg.CachePath),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "kis-token").Logger(),
		now:        time.Now,
	}
}

// Init makes sure a valid token is available, fetching one if needed.
func (p *TokenProvider) Init(ctx context.Context) error {
	_, err := p.Token(ctx)
	return err
}

// Token returns a valid access token.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.current != nil && p.current.ValidAt(now) {
		return p.current.AccessToken, nil
	}

	if cached := p.loadFile(); cached != nil && cached.ValidAt(now) {
		p.log.Debug().Time("expires_at", cached.Expiry()).Msg("Using cached access token")
		p.current = cached
		return cached.AccessToken, nil
	}

	tok, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}
	p.current = tok
	return tok.AccessToken, nil
}

// LoadCached adopts a still-valid token from the cache file without calling
// the token endpoint. Reports whether a valid token is now held.
func (p *TokenProvider) LoadCached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.current != nil && p.current.ValidAt(now) {
		return true
	}
	if cached := p.loadFile(); cached != nil && cached.ValidAt(now) {
		p.current = cached
		return true
	}
	return false
}

// Invalidate drops the in-memory and on-disk token so the next Token call
// fetches a new one.
func (p *TokenProvider) Invalidate() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = nil
	return p.file.Remove()
}

// Refresh replaces the current token with a freshly issued one. On failure
// the held token and the cache file are left as they were.
func (p *TokenProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.fetch(ctx)
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

// ExpiresWithin reports whether the held token is missing or expires within d.
func (p *TokenProvider) ExpiresWithin(d time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return true
	}
	return !p.current.ValidAt(p.now().Add(d))
}

// Status reports the state of the in-memory token.
func (p *TokenProvider) Status() TokenStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return TokenStatus{}
	}
	return TokenStatus{
		Valid:     p.current.ValidAt(p.now()),
		ExpiresAt: p.current.Expiry(),
	}
}

func (p *TokenProvider) loadFile() *CachedToken {
	tok, err := p.file.Load()
	if err != nil {
		p.log.Warn().Err(err).Msg("Ignoring unreadable token cache")
		return nil
	}
	return tok
}

// fetch calls the token endpoint. Callers hold p.mu.
func (p *TokenProvider) fetch(ctx context.Context) (*CachedToken, error) {
	if p.oauth.ClientID == "" || p.oauth.ClientSecret == "" {
		return nil, fmt.Errorf("%w: app key and secret are not configured", domain.ErrAuthentication)
	}

	p.log.Info().Str("token_url", p.oauth.TokenURL).Msg("Requesting access token")

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	issuedAt := p.now()
	tok, err := p.oauth.Token(ctx)
	if err != nil {
		p.log.Error().Err(err).Msg("Access token request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: response has no access_token", domain.ErrAuthentication)
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = issuedAt.Add(defaultTokenLifetime)
	}
	expiry = expiry.Add(-expiryMargin)

	cached := &CachedToken{
		AccessToken: tok.AccessToken,
		ExpiresAt:   float64(expiry.UnixNano()) / 1e9,
	}
	if err := p.file.Save(*cached); err != nil {
		p.log.Warn().Err(err).Msg("Failed to persist access token")
	}

	p.log.Info().Time("expires_at", expiry).Msg("Access token issued")
	return cached, nil
}

// TokenRefreshJob renews the token shortly before it expires so requests
// do not pay for a token round trip.
type TokenRefreshJob struct {
	provider *TokenProvider
	window   time.Duration
	log      zerolog.Logger
}

// NewTokenRefreshJob creates a job that refreshes tokens expiring within window.
func NewTokenRefreshJob(provider *TokenProvider, window time.Duration, log zerolog.Logger) *TokenRefreshJob {
	return &TokenRefreshJob{
		provider: provider,
		window:   window,
		log:      log.With().Str("job", "kis_token_refresh").Logger(),
	}
}

// Run refreshes the token when needed.
func (j *TokenRefreshJob) Run() error {
	if !j.provider.ExpiresWithin(j.window) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.provider.Refresh(ctx); err != nil {
		return fmt.Errorf("token refresh: %w", err)
	}
	j.log.Info().Msg("Access token refreshed")
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *TokenRefreshJob) Name() string {
	return "kis_token_refresh"
}
