package api

import (
	"net/http"
	"time"

	"github.com/ViniLF/library-api/internal/resp"
)

// HealthHandler serves GET /health.
type HealthHandler struct {
	env     string
	version string
	rs      *resp.Responder
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(env, version string, rs *resp.Responder) *HealthHandler {
	return &HealthHandler{env: env, version: version, rs: rs}
}

type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
	Version     string    `json:"version"`
}

// Check reports liveness. It sits outside the rate-limited API tree so load
// balancer probes never get throttled.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	h.rs.OK(w, &healthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Environment: h.env,
		Version:     h.version,
	}, "")
}
