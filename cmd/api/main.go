package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medguard-ai/internal/anchor"
	"medguard-ai/internal/config"
	"medguard-ai/internal/http"
	"medguard-ai/internal/llm"
	"medguard-ai/internal/pinning"
	"medguard-ai/internal/report"
	"medguard-ai/internal/service"
	"medguard-ai/internal/storage"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API turns symptom descriptions into structured diagnoses, renders them as PDF reports,
// pins them to IPFS, stores them as health records and anchors them on the Aptos chain.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: MedGuard AI API
//   description: |
//     AI-assisted symptom analysis with verifiable health records.
//     Reports are content-addressed on IPFS and their hashes anchored on chain.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "driver", cfg.DBDriver)

	// Create repository instances
	recordRepo := storage.NewRecordRepo(db)
	userRepo := storage.NewUserRepo(db)
	iotRepo := storage.NewIoTRepo(db)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// IPFS pinning, with optional sealing of JSON payloads
	pinClient := pinning.NewClient(pinning.Config{
		APIKey:     cfg.PinataAPIKey,
		APISecret:  cfg.PinataAPISecret,
		APIURL:     cfg.PinataAPIURL,
		GatewayURL: cfg.PinataGatewayURL,
		Production: cfg.IsProduction(),
	})
	if !pinClient.Configured() {
		slog.Warn("Pinning credentials not set", "production", cfg.IsProduction())
	}
	var sealer *pinning.Sealer
	if cfg.RecordEncryptionKey != "" {
		sealer, err = pinning.NewSealer(cfg.RecordEncryptionKey)
		if err != nil {
			log.Fatalf("Failed to create record sealer: %v", err)
		}
	}

	// Aptos wallet, anchorers and balance lookups
	nodeURL := cfg.AptosNodeURL
	if nodeURL == "" {
		nodeURL = anchor.NodeURL(cfg.AptosNetwork)
	}
	wallet := anchor.NewRemoteWallet(cfg.WalletURL)
	slog.Info("Anchoring configured", "network", cfg.AptosNetwork, "mode", cfg.AnchorMode, "node_url", nodeURL)

	// Create services
	diagnoses := service.NewDiagnosisService(llmClient, nil)
	publisher := service.NewPublishService(report.NewRenderer(), pinClient, sealer)
	records := service.NewRecordService(recordRepo, cfg.RequireAuth)
	anchors := service.NewAnchorService(
		wallet,
		anchor.NewChainAnchorer(wallet),
		anchor.NewSimulatedAnchorer(),
		anchor.NewBalanceClient(nodeURL),
		records,
		service.AnchorConfig{
			Network:   cfg.AptosNetwork,
			Simulated: cfg.AnchorMode == config.AnchorModeSimulated,
		},
	)

	// Create router with dependencies
	deps := &http.Deps{
		Diagnoses:         diagnoses,
		Publisher:         publisher,
		Records:           records,
		Anchors:           anchors,
		Pipeline:          service.NewPipeline(diagnoses, publisher, records, anchors),
		Telemetry:         service.NewTelemetryService(iotRepo, userRepo),
		DB:                db,
		PinningConfigured: pinClient.Configured(),
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", addr, "environment", cfg.Environment)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}
