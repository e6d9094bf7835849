package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/travelstats/internal/amqp"
	"github.com/mmynk/travelstats/internal/calculator"
	"github.com/mmynk/travelstats/internal/config"
	"github.com/mmynk/travelstats/internal/display"
	"github.com/mmynk/travelstats/internal/metrics"
	"github.com/mmynk/travelstats/internal/middleware"
	"github.com/mmynk/travelstats/internal/observe"
	"github.com/mmynk/travelstats/internal/participation"
	"github.com/mmynk/travelstats/internal/service"
	"github.com/mmynk/travelstats/internal/storage"
	"github.com/mmynk/travelstats/internal/storage/postgres"
	"github.com/mmynk/travelstats/internal/storage/sqlite"
	"github.com/mmynk/travelstats/pkg/logging"
)

const (
	shutdownTimeout = 10 * time.Second

	// participation trackers idle this long are dropped
	trackerIdle       = time.Hour
	trackerPruneEvery = 10 * time.Minute
)

func main() {
	cfg := config.Load()
	logging.SetupWith(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.DataBackend)

	formatter, err := display.NewFormatter(cfg.DisplayLocale)
	if err != nil {
		slog.Error("Failed to initialize formatter", "error", err)
		os.Exit(1)
	}

	stats := metrics.New()
	observer := observe.Multi(stats, observe.Logger(slog.With("component", "stats")))
	registry := participation.NewRegistry(storage.ParticipationFetcher{Reader: store}, observer)
	engine := calculator.NewEngine(calculator.Options{
		AliasAwareSelfShare:     cfg.AliasAwareSelfShare,
		PersonalStatsAliasAware: cfg.PersonalStatsAliasAware,
	}, observer)
	svc := service.NewStatsService(store, registry, engine, formatter)
	go registry.PruneEvery(ctx, trackerPruneEvery, trackerIdle)

	if cfg.AMQPURL != "" {
		go func() {
			if err := amqp.Run(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, amqp.RefreshHandler(store, registry)); err != nil {
				slog.Error("AMQP consumer failed", "error", err)
			}
		}()
		slog.Info("AMQP consumer started", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(newHandler(svc, stats), &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	default:
		return sqlite.New(cfg.SQLiteDBPath)
	}
}

// newHandler mounts the stats service, metrics and health check.
func newHandler(svc *service.StatsService, stats *metrics.Observer) http.Handler {
	mux := http.NewServeMux()

	path, handler := service.NewStatsServiceHandler(svc, connect.WithInterceptors(middleware.LoggingInterceptor()))
	mux.Handle(path, handler)
	mux.Handle("/metrics", stats.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return loggingMiddleware(corsMiddleware(mux))
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
