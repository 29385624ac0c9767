package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zentrader/internal/journal"
	"zentrader/internal/logger"
	"zentrader/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer trace.Shutdown(ctx)

	cfg, err := loadConfig(ctx)
	must(err)

	svc := buildDashboard(cfg)
	diary := journal.New(cfg.Journal.Path)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	logger.Info(ctx, "Sentinel started", "poll_seconds", cfg.PollSeconds, "watchlist", len(cfg.Watchlist))

	refresh := func() int {
		bio := loadBioState(ctx)
		state := svc.Refresh(ctx, bio)
		b, err := json.Marshal(state)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to encode dashboard state", err)
			return state.ZenScore
		}
		fmt.Println(string(b))
		return state.ZenScore
	}

	lastScore := refresh()

	for {
		select {
		case <-tick.C:
			lastScore = refresh()
		case <-sigc:
			logger.Info(ctx, "Shutting down...")
			entry := journal.Entry{
				ZenScore:    lastScore,
				ActiveAsset: cfg.ActiveSymbol,
				Note:        "session closed",
			}
			if err := diary.Append(entry); err != nil {
				logger.ErrorWithErr(ctx, "Failed to write closing journal entry", err)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}
