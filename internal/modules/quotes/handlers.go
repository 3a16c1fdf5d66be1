package quotes

import (
	"net/http"

	"github.com/aristath/riskgauge/internal/api"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles quote HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new quotes handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "quotes").Logger(),
	}
}

// RegisterRoutes registers quote routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stock/summary", h.HandleSummary)
}

// HandleSummary handles GET /stock/summary?query=
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	query := api.SymbolQuery(r)
	if query == "" {
		api.WriteBadRequest(w, "query parameter is required")
		return
	}

	summary, err := h.service.Summary(r.Context(), query)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, summary)
}
