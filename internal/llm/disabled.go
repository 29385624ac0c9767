package llm

import (
	"context"

	"zentrader/internal/types"
)

// DisabledMentor answers every question with a fixed notice. Used when
// no provider credential is configured.
type DisabledMentor struct {
	reason string
}

func NewDisabled(reason string) *DisabledMentor {
	if reason == "" {
		reason = "AI mentor is not configured."
	}
	return &DisabledMentor{reason: reason}
}

func (m *DisabledMentor) Chat(_ context.Context, _ []types.ChatTurn, _ string) (string, error) {
	return m.reason, nil
}
