package symbols

import (
	"net/http"
	"strconv"

	"github.com/aristath/riskgauge/internal/api"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler serves the listing
type Handler struct {
	table *Table
	log   zerolog.Logger
}

// NewHandler creates a new symbols handler
func NewHandler(table *Table, log zerolog.Logger) *Handler {
	return &Handler{
		table: table,
		log:   log.With().Str("handler", "symbols").Logger(),
	}
}

// RegisterRoutes registers the listing routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stocks", h.HandleList)
	r.Get("/stocks/resolve", h.HandleResolve)
}

// HandleList handles GET /stocks[?q=&limit=]
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			api.WriteBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	api.WriteJSON(w, http.StatusOK, h.table.Search(r.URL.Query().Get("q"), limit))
}

// HandleResolve handles GET /stocks/resolve?query=
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		api.WriteBadRequest(w, "query parameter is required")
		return
	}
	sym, err := h.table.Resolve(query)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, sym)
}
