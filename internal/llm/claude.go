package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"zentrader/internal/logger"
	"zentrader/internal/store"
	"zentrader/internal/trace"
	"zentrader/internal/types"
)

const defaultEndpoint = "https://api.anthropic.com/v1/messages"

// ClaudeMentor relays conversations to the Anthropic Claude Messages API.
type ClaudeMentor struct {
	cfg      *store.Config
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClaudeMentor fails when CLAUDE_API_KEY is unset so callers can fall
// back to the disabled mentor instead of erroring per request.
func NewClaudeMentor(cfg *store.Config) (*ClaudeMentor, error) {
	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("CLAUDE_API_KEY missing")
	}

	// default messages endpoint (public Anthropic)
	endpoint := defaultEndpoint
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}

	return &ClaudeMentor{
		cfg:      cfg,
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Chat replays the prior turns and sends the composed prompt as the
// final user message.
func (m *ClaudeMentor) Chat(ctx context.Context, history []types.ChatTurn, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-chat")
	defer span.End()

	logger.Debug(ctx, "Claude mentor called", "model", m.cfg.LLM.Model, "history_turns", len(history))

	messages := make([]claudeMessage, 0, len(history)+1)
	for _, turn := range history {
		role := turn.Role
		if role != "user" && role != "assistant" {
			role = "user"
		}
		messages = append(messages, claudeMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, claudeMessage{Role: "user", Content: prompt})

	system := m.cfg.LLM.System
	if system == "" {
		system = "You are a calm trading mentor. Favor risk management and patience over urgency."
	}

	reqBody := map[string]any{
		"model":       m.cfg.LLM.Model,
		"system":      system,
		"messages":    messages,
		"max_tokens":  m.cfg.LLM.MaxTokens,
		"temperature": m.cfg.LLM.Temperature,
	}

	bb, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(bb))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", m.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Claude request failed", err)
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("claude http %d: %s", resp.StatusCode, string(body))
	}

	var parsed claudeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("claude response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("claude api error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	var out strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	answer := strings.TrimSpace(out.String())
	if answer == "" {
		return "", errors.New("claude returned empty content")
	}

	logger.Debug(ctx, "Claude mentor replied", "chars", len(answer))
	return answer, nil
}
