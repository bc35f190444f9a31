package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern usa el patrón de chi (/pets/{petID}) para no explotar la cardinalidad de métricas.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
