package health

import (
	"encoding/json"
	"net/http"
)

// Handler serves the checks of scope as JSON. The overall scope answers 200
// while degraded; readiness and liveness answer 503 for anything but healthy.
func (c *Checker) Handler(scope Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := c.Run(scope)
		writeResponse(w, statusCode(scope, response.Status), response)
	}
}

func statusCode(scope Scope, status Status) int {
	switch {
	case status == StatusHealthy:
		return http.StatusOK
	case status == StatusDegraded && scope == ScopeOverall:
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func writeResponse(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
