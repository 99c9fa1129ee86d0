package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/heartmarshall/gematria/internal/gematria"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type engineProbe interface {
	Calculate(id gematria.MethodID, text string) (int64, error)
}

// probeText and probeValue form a known English value used to confirm the
// engine tables are loaded and evaluating.
const (
	probeText  = "LOVE"
	probeValue = 54
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db      dbPinger
	engine  engineProbe
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, engine engineProbe, version string) *HealthHandler {
	return &HealthHandler{db: db, engine: engine, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Pings DB: 200 if OK, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health reports the database (with ping latency) and the engine, plus the
// build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus, 2)
	overall := "ok"

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		components["database"] = CompStatus{Status: "down"}
		overall = "down"
	} else {
		components["database"] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}

	start = time.Now()
	if v, err := h.engine.Calculate(gematria.English, probeText); err != nil || v != probeValue {
		components["engine"] = CompStatus{Status: "down"}
		overall = "down"
	} else {
		components["engine"] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}

	status := http.StatusOK
	if overall != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}
