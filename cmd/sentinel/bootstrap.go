package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"zentrader/internal/biofeedback"
	"zentrader/internal/dashboard"
	"zentrader/internal/logger"
	"zentrader/internal/market"
	"zentrader/internal/news"
	"zentrader/internal/store"
	"zentrader/internal/trace"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultStateFile = "zen_state.yaml"

// initializeSystem loads the environment and brings up logger and tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("ZEN_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// loadBioState reads the trader's questionnaire answers. A missing file
// means the questionnaire was never filled in, which yields a neutral
// state that stays below the gate.
func loadBioState(ctx context.Context) biofeedback.State {
	path := os.Getenv("ZEN_STATE_FILE")
	if path == "" {
		path = defaultStateFile
	}

	b, err := os.ReadFile(path)
	if err != nil {
		logger.Warn(ctx, "No biofeedback state file, gate stays closed", "path", path)
		return biofeedback.State{Mood: 1, Stress: 10}
	}

	var state biofeedback.State
	if err := yaml.Unmarshal(b, &state); err != nil {
		logger.ErrorWithErr(ctx, "Failed to parse biofeedback state", err, "path", path)
		return biofeedback.State{Mood: 1, Stress: 10}
	}
	return state
}

// buildDashboard wires the market provider and news service together.
func buildDashboard(cfg *store.Config) *dashboard.Service {
	provider := market.NewProvider(time.Duration(cfg.Cache.BarsTTLSeconds) * time.Second)
	feed := news.NewService(cfg, nil)
	return dashboard.NewService(cfg, provider, feed)
}
