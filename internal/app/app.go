package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/gematria/internal/adapter/postgres"
	"github.com/heartmarshall/gematria/internal/adapter/postgres/word"
	"github.com/heartmarshall/gematria/internal/config"
	"github.com/heartmarshall/gematria/internal/gematria"
	"github.com/heartmarshall/gematria/internal/service/catalog"
	"github.com/heartmarshall/gematria/internal/transport/middleware"
	"github.com/heartmarshall/gematria/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires the catalog service into the HTTP API and serves
// until ctx is canceled, then shuts the server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log, "server")

	logger.Info("starting application",
		slog.String("log_level", cfg.Log.Level),
		slog.Int("max_input_length", cfg.Engine.MaxInputLength),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	engine := gematria.New(cfg.Engine.Options()...)
	catalogService := catalog.NewService(logger, engine, word.New(pool, postgres.NewTxManager(pool)), cfg.Catalog)

	var writeLimit middleware.Middleware
	if cfg.RateLimit.WritesPerMinute > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer limiter.Stop()
		writeLimit = limiter.Limit(cfg.RateLimit.WritesPerMinute)
	}

	handler := NewRouter(logger, Handlers{
		Catalog: rest.NewCatalogHandler(catalogService, logger),
		Health:  rest.NewHealthHandler(pool, engine, BuildVersion()),
	}, cfg.CORS, writeLimit)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return serve(ctx, logger, srv, cfg.Server.ShutdownTimeout)
}

// serve runs srv until ctx is done or the listener fails. On cancellation
// in-flight requests get shutdownTimeout to finish.
func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("http server stopped")
	return nil
}
