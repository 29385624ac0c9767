package llm

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"zentrader/internal/store"
	"zentrader/internal/types"
)

func testConfig() *store.Config {
	cfg := &store.Config{}
	cfg.Precision = store.DefaultPrecision()
	cfg.LLM.Model = "claude-3-5-haiku-latest"
	cfg.LLM.MaxTokens = 512
	cfg.LLM.Temperature = 0.7
	return cfg
}

func TestBuildPromptFormatsPricePerClass(t *testing.T) {
	cfg := testConfig()

	mc := MentorContext{
		AssetName:  "Bitcoin",
		AssetClass: "crypto",
		Price:      64123.789,
		RSI:        55.44,
		ZenScore:   80,
	}
	prompt := BuildPrompt(cfg, mc, "Should I wait for a pullback?")

	if !strings.Contains(prompt, "Bitcoin at 64124") {
		t.Errorf("Expected crypto price with 0 decimals, got %q", prompt)
	}
	if !strings.Contains(prompt, "RSI 55.4") {
		t.Errorf("Expected RSI with one decimal, got %q", prompt)
	}
	if !strings.Contains(prompt, "score 80/100") {
		t.Errorf("Expected zen score in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "Should I wait for a pullback?") {
		t.Errorf("Expected question in prompt, got %q", prompt)
	}
}

func TestBuildPromptForexPrecisionAndMissingRSI(t *testing.T) {
	cfg := testConfig()

	mc := MentorContext{
		AssetName:  "EUR/USD",
		AssetClass: "forex",
		Price:      1.08765,
		RSI:        math.NaN(),
	}
	prompt := BuildPrompt(cfg, mc, "Any levels to watch?")

	if !strings.Contains(prompt, "1.08765") {
		t.Errorf("Expected forex price with 5 decimals, got %q", prompt)
	}
	if !strings.Contains(prompt, "RSI n/a") {
		t.Errorf("Expected missing RSI rendered as n/a, got %q", prompt)
	}
}

func TestClaudeMentorReplaysHistory(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		System   string `json:"system"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header, got %q", r.Header.Get("x-api-key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"Patience pays."}]}`))
	}))
	defer server.Close()

	t.Setenv("CLAUDE_API_KEY", "test-key")
	t.Setenv("CLAUDE_API_ENDPOINT", server.URL)

	mentor, err := NewClaudeMentor(testConfig())
	if err != nil {
		t.Fatalf("NewClaudeMentor failed: %v", err)
	}

	history := []types.ChatTurn{
		{Role: "user", Content: "What is RSI?"},
		{Role: "assistant", Content: "A momentum oscillator."},
	}
	answer, err := mentor.Chat(context.Background(), history, "Is 70 overbought?")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if answer != "Patience pays." {
		t.Errorf("Expected relayed answer, got %q", answer)
	}

	if len(captured.Messages) != 3 {
		t.Fatalf("Expected history plus prompt (3 messages), got %d", len(captured.Messages))
	}
	if captured.Messages[0].Content != "What is RSI?" || captured.Messages[0].Role != "user" {
		t.Errorf("Expected first history turn replayed, got %+v", captured.Messages[0])
	}
	if captured.Messages[1].Role != "assistant" {
		t.Errorf("Expected assistant turn preserved, got %+v", captured.Messages[1])
	}
	if captured.Messages[2].Content != "Is 70 overbought?" {
		t.Errorf("Expected prompt as final message, got %+v", captured.Messages[2])
	}
	if captured.System == "" {
		t.Error("Expected default system prompt to be set")
	}
}

func TestClaudeMentorHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"overloaded_error","message":"busy"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	t.Setenv("CLAUDE_API_KEY", "test-key")
	t.Setenv("CLAUDE_API_ENDPOINT", server.URL)

	mentor, err := NewClaudeMentor(testConfig())
	if err != nil {
		t.Fatalf("NewClaudeMentor failed: %v", err)
	}

	if _, err := mentor.Chat(context.Background(), nil, "hello"); err == nil {
		t.Error("Expected error on 503 response")
	}
}

func TestNewClaudeMentorRequiresKey(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "")
	if _, err := NewClaudeMentor(testConfig()); err == nil {
		t.Error("Expected error when CLAUDE_API_KEY is unset")
	}
}

func TestDisabledMentor(t *testing.T) {
	m := NewDisabled("AI mentor offline: no key")
	answer, err := m.Chat(context.Background(), nil, "anything")
	if err != nil {
		t.Fatalf("Disabled mentor should not error: %v", err)
	}
	if answer != "AI mentor offline: no key" {
		t.Errorf("Expected notice, got %q", answer)
	}
}

func TestNewMentorFallsBackWhenUnconfigured(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "")
	m := NewMentor(testConfig())
	if _, ok := m.(*DisabledMentor); !ok {
		t.Errorf("Expected DisabledMentor fallback, got %T", m)
	}
}
