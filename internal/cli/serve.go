package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/visitorlog/internal/api"
	"github.com/erazemk/visitorlog/internal/auth"
	"github.com/erazemk/visitorlog/internal/config"
	"github.com/erazemk/visitorlog/internal/logging"
	"github.com/erazemk/visitorlog/internal/metrics"
	"github.com/erazemk/visitorlog/internal/store"
	"github.com/erazemk/visitorlog/internal/web"
)

// purgeInterval is how often expired revocations are dropped from SQLite.
const purgeInterval = time.Hour

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  "Serve the JSON API under /api, Prometheus metrics on /metrics and the browser frontend on every other path.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := openDB(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return err
	}
	defer closeDB(database)
	slog.Info("database ready", "path", cfg.Database.Path)

	handler, cleanup, err := newHandler(ctx, cfg, database)
	if err != nil {
		slog.Error("failed to set up server", "error", err)
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server started", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
			return err
		}
		return nil
	})

	if cfg.Redis.URL == "" {
		g.Go(func() error {
			purgeRevokedTokens(gctx, database, purgeInterval)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}

// newHandler wires the stores, auth, metrics and routers into one handler.
// The returned cleanup releases the Redis client, if one was opened.
func newHandler(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, func(), error) {
	cleanup := func() {}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		var err error
		if secret, err = store.GetJWTSecret(ctx, database); err != nil {
			return nil, nil, fmt.Errorf("loading jwt secret: %w", err)
		}
	}
	issuer := auth.NewIssuer(secret, cfg.Auth.TokenTTL)

	var revoker auth.Revoker = auth.NewSQLRevoker(database)
	if cfg.Redis.URL != "" {
		client, err := auth.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		revoker = auth.NewRedisRevoker(client)
		cleanup = func() {
			if err := client.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}
		slog.Info("token revocations stored in redis")
	}

	m := metrics.New()
	visitors := store.NewVisitorStore(database)
	users := store.NewUserStore(database)

	webRouter, err := web.NewRouter(web.Deps{
		Visitors: visitors,
		Users:    users,
		Issuer:   issuer,
		Revoker:  revoker,
		Metrics:  m,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("setting up web router: %w", err)
	}

	r := chi.NewRouter()
	r.Use(api.RequestID, logging.RequestLogger, middleware.Recoverer, m.Middleware)

	r.Mount("/api", api.NewRouter(api.Deps{
		Visitors:       visitors,
		Users:          users,
		Issuer:         issuer,
		Revoker:        revoker,
		Metrics:        m,
		DB:             database,
		AllowedOrigins: cfg.CORS.Origins(),
		AllowBodyOwner: cfg.Visitors.AllowBodyOwner,
	}))
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Mount("/", webRouter)

	return r, cleanup, nil
}

// purgeRevokedTokens drops expired revocations every interval until ctx is
// done.
func purgeRevokedTokens(ctx context.Context, database *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpiredTokens(ctx, database, time.Now())
			if err != nil {
				slog.Error("failed to purge revoked tokens", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired revoked tokens", "count", n)
			}
		}
	}
}
