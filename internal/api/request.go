package api

import (
	"net/http"
	"strings"
)

// SymbolQuery returns the company name or code a request asks about.
// "query" is preferred; "symbol" is accepted for older clients.
func SymbolQuery(r *http.Request) string {
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("query")); v != "" {
		return v
	}
	return strings.TrimSpace(q.Get("symbol"))
}
