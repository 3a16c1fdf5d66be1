package server

import (
	"context"
	"net/http"
	"time"

	"github.com/aristath/riskgauge/internal/api"
	"github.com/aristath/riskgauge/internal/clients/kis"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// TokenManager is the part of the token provider the system routes use
type TokenManager interface {
	Refresh(ctx context.Context) error
	Status() kis.TokenStatus
}

// CacheStats reports entry counts per cache table
type CacheStats interface {
	Stats() (map[string]int64, error)
}

// JobLister lists scheduled job names
type JobLister interface {
	Jobs() []string
}

// SystemStatusResponse is returned by GET /api/system/status
type SystemStatusResponse struct {
	Status        string           `json:"status"`
	UptimeSeconds float64          `json:"uptime_seconds"`
	CPUPercent    float64          `json:"cpu_percent"`
	RAMPercent    float64          `json:"ram_percent"`
	Token         kis.TokenStatus  `json:"token"`
	CacheEnabled  bool             `json:"cache_enabled"`
	CacheEntries  map[string]int64 `json:"cache_entries,omitempty"`
	Symbols       int              `json:"symbols"`
	Jobs          []string         `json:"jobs"`
}

// SystemHandlers serves the /api/system routes
type SystemHandlers struct {
	log         zerolog.Logger
	tokens      TokenManager
	cache       CacheStats // nil when caching is disabled
	jobs        JobLister  // nil when nothing is scheduled
	symbolCount int
	startupTime time.Time
}

// NewSystemHandlers creates new system handlers
func NewSystemHandlers(log zerolog.Logger, tokens TokenManager, cache CacheStats, jobs JobLister, symbolCount int) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		tokens:      tokens,
		cache:       cache,
		jobs:        jobs,
		symbolCount: symbolCount,
		startupTime: time.Now(),
	}
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	resp := SystemStatusResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Token:         h.tokens.Status(),
		CacheEnabled:  h.cache != nil,
		Symbols:       h.symbolCount,
		Jobs:          []string{},
	}

	if h.cache != nil {
		entries, err := h.cache.Stats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to read cache stats")
			resp.Status = "degraded"
		} else {
			resp.CacheEntries = entries
		}
	}
	if h.jobs != nil {
		resp.Jobs = h.jobs.Jobs()
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

// HandleTokenRefresh handles POST /api/system/token/refresh
func (h *SystemHandlers) HandleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.tokens.Refresh(r.Context()); err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	h.log.Info().Msg("Access token refreshed on request")
	api.WriteJSON(w, http.StatusOK, h.tokens.Status())
}

// getSystemStats returns CPU and RAM usage percentages. CPU is sampled over
// 100ms to keep the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
