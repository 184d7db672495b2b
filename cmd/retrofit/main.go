package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/Retrofit/internal/analyzer"
	"github.com/MikeSquared-Agency/Retrofit/internal/api"
	"github.com/MikeSquared-Agency/Retrofit/internal/assessor"
	"github.com/MikeSquared-Agency/Retrofit/internal/config"
	"github.com/MikeSquared-Agency/Retrofit/internal/hermes"
	"github.com/MikeSquared-Agency/Retrofit/internal/metrics"
	"github.com/MikeSquared-Agency/Retrofit/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to open assessment store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("assessment store ready", "driver", cfg.Database.Driver)

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger.With("component", "hermes"))
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	// Remote analyzer
	analyzerClient := analyzer.NewHTTPClient(cfg.Analyzer.URL, cfg.Analyzer.Token, cfg.AnalyzerTimeout())

	m := metrics.New(prometheus.DefaultRegisterer)

	svc := assessor.New(db, hermesClient, analyzerClient, m, cfg, logger.With("component", "assessor"))
	svc.Start(ctx)
	defer svc.Stop()
	logger.Info("assessor started",
		"analyzer_url", cfg.Analyzer.URL,
		"analyzer_timeout", cfg.AnalyzerTimeout(),
		"cache_ttl", cfg.CacheTTL(),
		"retention", cfg.RetentionMaxAge(),
	)

	// API server
	router := api.NewRouter(svc, m, cfg, logger.With("component", "api"))
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsRouter := api.NewMetricsRouter()
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.URL)
	default:
		return store.NewSQLiteStore(ctx, cfg.URL)
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
