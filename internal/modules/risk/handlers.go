package risk

import (
	"context"
	"net/http"

	"github.com/aristath/riskgauge/internal/api"
	"github.com/aristath/riskgauge/internal/modules/scoring"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles risk scoring HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "risk").Logger(),
	}
}

// RegisterRoutes registers all risk scoring routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	// /stock/summary lives in the quotes module, so no /stock subrouter
	r.Get("/stock/financial", h.domainHandler(scoring.DomainStability))
	r.Get("/stock/profitability", h.domainHandler(scoring.DomainProfitability))
	r.Get("/stock/volatility", h.domainHandler(scoring.DomainVolatility))
	r.Get("/stock/supply-risk", h.domainHandler(scoring.DomainSupply))
	r.Get("/stock/risk-overview", h.HandleOverview)
}

func (h *Handler) domainHandler(d scoring.Domain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, func(ctx context.Context, query string) (interface{}, error) {
			return h.service.Score(ctx, d, query)
		})
	}
}

// HandleOverview handles GET /stock/risk-overview?query=
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, query string) (interface{}, error) {
		return h.service.Overview(ctx, query)
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (interface{}, error)) {
	query := api.SymbolQuery(r)
	if query == "" {
		api.WriteBadRequest(w, "query parameter is required")
		return
	}

	result, err := fn(r.Context(), query)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, result)
}
