package charts

import (
	"net/http"

	"github.com/aristath/riskgauge/internal/api"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles chart HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new charts handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

// RegisterRoutes registers chart routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chart/{timeframe}", func(r chi.Router) {
		r.Get("/", h.HandleCandles)
		r.Get("/indicators", h.HandleIndicators)
	})
}

// HandleCandles handles GET /chart/{timeframe}?query=
func (h *Handler) HandleCandles(w http.ResponseWriter, r *http.Request) {
	query := api.SymbolQuery(r)
	if query == "" {
		api.WriteBadRequest(w, "query parameter is required")
		return
	}

	candles, err := h.service.Candles(r.Context(), query, chi.URLParam(r, "timeframe"))
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, candles)
}

// HandleIndicators handles GET /chart/{timeframe}/indicators?query=
func (h *Handler) HandleIndicators(w http.ResponseWriter, r *http.Request) {
	query := api.SymbolQuery(r)
	if query == "" {
		api.WriteBadRequest(w, "query parameter is required")
		return
	}

	ind, err := h.service.Indicators(r.Context(), query, chi.URLParam(r, "timeframe"))
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, ind)
}
