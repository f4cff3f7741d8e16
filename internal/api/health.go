package api

import (
	"context"
	"net/http"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	OK bool `json:"ok"`
}

// Health handles GET /api/health. It reports 503 when the database does
// not answer a ping.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				jsonResponse(w, http.StatusServiceUnavailable, healthResponse{OK: false})
				return
			}
		}
		jsonResponse(w, http.StatusOK, healthResponse{OK: true})
	}
}
