package llm

import (
	"context"
	"fmt"
	"math"

	"zentrader/internal/store"
	"zentrader/internal/types"
)

// Mentor answers trading questions given the prior conversation. History
// is replayed to the provider on every call so the exchange stays coherent.
type Mentor interface {
	Chat(ctx context.Context, history []types.ChatTurn, prompt string) (string, error)
}

// MentorContext is the live state folded into every question so the
// model answers about the session actually on screen.
type MentorContext struct {
	AssetName  string
	AssetClass string
	Price      float64
	RSI        float64
	ZenScore   int
}

// BuildPrompt prefixes the user's question with the current market and
// mindset context. Prices are formatted with the per-class precision.
func BuildPrompt(cfg *store.Config, mc MentorContext, question string) string {
	decimals := cfg.DecimalsFor(mc.AssetClass)
	price := fmt.Sprintf("%.*f", decimals, mc.Price)

	rsi := "n/a"
	if !math.IsNaN(mc.RSI) {
		rsi = fmt.Sprintf("%.1f", mc.RSI)
	}

	return fmt.Sprintf(
		"Context: watching %s at %s, RSI %s, mental state score %d/100.\nQuestion: %s",
		mc.AssetName, price, rsi, mc.ZenScore, question,
	)
}

// NewMentor picks the configured provider, falling back to a disabled
// mentor when no credential is present.
func NewMentor(cfg *store.Config) Mentor {
	m, err := NewClaudeMentor(cfg)
	if err != nil {
		return NewDisabled("AI mentor offline: " + err.Error())
	}
	return m
}
