package domain

import (
	"context"
	"strings"
)

// CompletionClient defines the capability to send a prompt to an external AI
// completion service and receive the raw assistant message back.
type CompletionClient interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
