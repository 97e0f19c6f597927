package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/patient-insight-engine/internal/api"
	"github.com/patient-insight-engine/internal/config"
	"github.com/patient-insight-engine/internal/nlp"
	"github.com/patient-insight-engine/internal/reference"
	"github.com/patient-insight-engine/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := configManager.NewLogger()

	// Load reference data (built-in defaults unless overridden)
	table, err := reference.LoadTable(logger, &cfg.Reference)
	if err != nil {
		log.Fatalf("Failed to load biomarker range table: %v", err)
	}
	rulesets, err := reference.LoadRulesets(logger, &cfg.Reference)
	if err != nil {
		log.Fatalf("Failed to load focus-area rulesets: %v", err)
	}

	// Wire the engines. Building the scoring engine lemmatizes every ruleset
	// keyword, which constructs the shared language model here rather than
	// on the first request.
	normalizer := nlp.NewNormalizer(logger, &cfg.Engine)
	matcher := nlp.NewMatcher(&cfg.Engine)

	evaluator := service.NewBiomarkerEvaluator(logger, table)
	scoring, err := service.NewScoringEngine(logger, normalizer, matcher, rulesets, &cfg.Engine)
	if err != nil {
		log.Fatalf("Failed to initialize scoring engine: %v", err)
	}
	insights := service.NewInsightService(logger, evaluator, scoring)

	logger.Infof("Starting patient insight engine on %s:%d", cfg.Server.Host, cfg.Server.Port)

	// Create server
	server := api.NewServer(logger, cfg, insights)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}

	logger.Info("Server stopped")
}
