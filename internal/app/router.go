package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/gematria/internal/config"
	"github.com/heartmarshall/gematria/internal/transport/middleware"
	"github.com/heartmarshall/gematria/internal/transport/rest"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Catalog *rest.CatalogHandler
	Health  *rest.HealthHandler
}

// NewRouter mounts the API and health endpoints. writeLimit wraps the
// catalog write route only and may be nil.
func NewRouter(logger *slog.Logger, h Handlers, cors config.CORSConfig, writeLimit middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("GET /api/methods", h.Catalog.Methods)
	mux.HandleFunc("GET /api/calculate", h.Catalog.Calculate)
	mux.HandleFunc("GET /api/words", h.Catalog.Lookup)
	mux.HandleFunc("GET /api/related", h.Catalog.Related)
	mux.HandleFunc("GET /api/words/{text}", h.Catalog.GetWord)
	mux.Handle("POST /api/words", middleware.Chain(writeLimit)(http.HandlerFunc(h.Catalog.SaveWord)))

	// CORS sits outside the mux so preflight requests never reach routing.
	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cors),
	)(mux)
}
