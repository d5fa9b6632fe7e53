package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/PULSECOACH/pulsecoach/internal/analyzer"
	"github.com/PULSECOACH/pulsecoach/internal/api"
	"github.com/PULSECOACH/pulsecoach/internal/auth"
	"github.com/PULSECOACH/pulsecoach/internal/coach"
	"github.com/PULSECOACH/pulsecoach/internal/config"
	"github.com/PULSECOACH/pulsecoach/internal/database"
	"github.com/PULSECOACH/pulsecoach/internal/inference"
	"github.com/PULSECOACH/pulsecoach/internal/llm"
	"github.com/PULSECOACH/pulsecoach/internal/logging"
	"github.com/PULSECOACH/pulsecoach/internal/metrics"
	"github.com/PULSECOACH/pulsecoach/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting pulsecoach")

	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.Database.URL
	dbConfig.MaxConnections = cfg.Database.MaxConnections

	logger.Info("connecting to database")
	db, err := database.Connect(context.Background(), dbConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connected")

	// Run pending migrations (non-fatal to allow app to start even if migrations fail)
	if err := database.RunMigrations(db, cfg.Database.MigrationsDir, logger); err != nil {
		logger.Warn("failed to run migrations, continuing anyway", "error", err)
	}

	// Repositories
	recordRepo := database.NewRecordRepository(db)
	analysisRepo := database.NewAnalysisRepository(db)
	userRepo := database.NewUserRepository(db)
	inferenceLogRepo := database.NewInferenceLogRepository(db)

	inferenceLogger := inference.NewLogger(inferenceLogRepo, logger)

	llmConfig := llm.ConfigFromEnv()
	completer, err := llm.New(llmConfig, inferenceLogger, logger)
	if err != nil {
		logger.Error("failed to initialize llm provider", "error", err, "provider", llmConfig.Provider)
		os.Exit(1)
	}
	logger.Info("llm provider initialized", "provider", llmConfig.Provider, "model", llmConfig.Model)

	builder := analyzer.NewBuilder(recordRepo, logger)
	fitCoach := coach.New(completer, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.HealthCheck(r.Context(), db); err != nil {
			logger.Error("health check failed", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"degraded"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/api/info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"pulsecoach","status":"ready","version":"0.1.0"}`))
	})

	collector, err := metrics.NewHTTPCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	mux.Handle("/metrics", collector.Handler())

	authConfig := auth.LoadConfigFromEnv()
	logger.Info("auth configured", "jwt_secret_set", authConfig.JWTSecret != "change-this-secret")

	logger.Info("setting up REST API")
	api.SetupRoutes(mux, builder, analysisRepo, recordRepo, userRepo, fitCoach, collector, authConfig, logger)

	srv := server.New(cfg.Server, logger, collector.InstrumentHandler(mux))

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("pulsecoach started successfully")
	logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port))

	waitForSignal(logger)

	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func waitForSignal(logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	signal.Stop(c)
	close(c)
}
