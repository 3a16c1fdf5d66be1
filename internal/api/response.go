// Package api holds the JSON response helpers shared by the HTTP handlers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/riskgauge/internal/domain"
	"github.com/rs/zerolog"
)

// Error codes returned in error bodies
const (
	CodeBadRequest     = "BAD_REQUEST"
	CodeSymbolNotFound = "SYMBOL_NOT_FOUND"
	CodeUpstream       = "UPSTREAM_ERROR"
	CodeAuthentication = "UPSTREAM_AUTH_ERROR"
	CodeTimeout        = "TIMEOUT"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Retryable bool   `json:"retryable"`
}

// WriteJSON writes data with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteBadRequest writes a 400 with msg.
func WriteBadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, Code: CodeBadRequest})
}

// WriteError maps err to a status code and writes it. Unknown symbols and
// bad input are the caller's fault; upstream and token failures are 502 and
// retryable.
func WriteError(w http.ResponseWriter, log zerolog.Logger, err error) {
	status, body := Classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("Request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	WriteJSON(w, status, body)
}

// Classify returns the HTTP status and body for err.
func Classify(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrSymbolNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeSymbolNotFound}
	case errors.Is(err, domain.ErrInvalidTimeframe):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeBadRequest}
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: CodeAuthentication, Retryable: true}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Error: "upstream request timed out", Code: CodeTimeout, Retryable: true}
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: CodeUpstream, Retryable: true}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: CodeInternal}
	}
}
