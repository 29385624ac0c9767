package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"zentrader/internal/biofeedback"
	"zentrader/internal/llm"
	"zentrader/internal/logger"
	"zentrader/internal/market"
	"zentrader/internal/store"
	"zentrader/internal/ta"
	"zentrader/internal/types"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const historyFile = "mentor_history.json"

// mentor asks the AI mentor one question, with the prior conversation
// replayed from the history file so follow-ups stay coherent.
func main() {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	question := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: mentor <question>")
		os.Exit(2)
	}

	ctx := context.Background()

	cfgPath := os.Getenv("ZEN_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := store.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	mc := buildContext(ctx, cfg)
	prompt := llm.BuildPrompt(cfg, mc, question)

	history := loadHistory(ctx)
	mentor := llm.NewMentor(cfg)
	answer, err := mentor.Chat(ctx, history, prompt)
	if err != nil {
		logger.ErrorWithErr(ctx, "Mentor request failed", err)
		os.Exit(1)
	}

	fmt.Println(answer)

	history = append(history,
		types.ChatTurn{Role: "user", Content: prompt},
		types.ChatTurn{Role: "assistant", Content: answer},
	)
	saveHistory(ctx, history)
}

// buildContext pulls the live market and mindset state the prompt leans on.
// Any missing piece degrades to its zero form rather than aborting.
func buildContext(ctx context.Context, cfg *store.Config) llm.MentorContext {
	asset := activeAsset(cfg)
	mc := llm.MentorContext{AssetName: asset.Name, AssetClass: asset.Class}

	provider := market.NewProvider(time.Duration(cfg.Cache.BarsTTLSeconds) * time.Second)
	bars, err := provider.Bars(ctx, asset.Symbol, cfg.Chart.Period, cfg.Chart.Interval)
	if err != nil {
		logger.Warn(ctx, "No chart data for mentor context", "symbol", asset.Symbol, "error", err.Error())
	} else {
		snapshot := ta.Compute(bars, ta.Config{
			SMAWindow:  cfg.Indicators.SMAWindow,
			BBWindow:   cfg.Indicators.BBWindow,
			BBStdDev:   cfg.Indicators.BBStdDev,
			RSIPeriod:  cfg.Indicators.RSIPeriod,
			ATRPeriod:  cfg.Indicators.ATRPeriod,
			MACDFast:   cfg.Indicators.MACDFast,
			MACDSlow:   cfg.Indicators.MACDSlow,
			MACDSignal: cfg.Indicators.MACDSignal,
		})
		mc.Price = snapshot.Price
		mc.RSI = snapshot.RSI14
	}

	statePath := os.Getenv("ZEN_STATE_FILE")
	if statePath == "" {
		statePath = "zen_state.yaml"
	}
	if b, err := os.ReadFile(statePath); err == nil {
		var state biofeedback.State
		if yaml.Unmarshal(b, &state) == nil {
			mc.ZenScore = biofeedback.Score(state).Score
		}
	}

	return mc
}

func activeAsset(cfg *store.Config) store.Asset {
	for _, a := range cfg.Watchlist {
		if a.Symbol == cfg.ActiveSymbol {
			return a
		}
	}
	return cfg.Watchlist[0]
}

func loadHistory(ctx context.Context) []types.ChatTurn {
	b, err := os.ReadFile(historyFile)
	if err != nil {
		return nil
	}
	var history []types.ChatTurn
	if err := json.Unmarshal(b, &history); err != nil {
		logger.Warn(ctx, "Discarding unreadable mentor history", "error", err.Error())
		return nil
	}
	return history
}

func saveHistory(ctx context.Context, history []types.ChatTurn) {
	b, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(historyFile, b, 0o644); err != nil {
		logger.ErrorWithErr(ctx, "Failed to save mentor history", err)
	}
}
