// Package llm provides the completion backends used for intent classification.
package llm

import "context"

// Sampling limits shared by every backend
const (
	Temperature = 0.3
	MaxTokens   = 200
)

// Completer turns a system instruction and a user message into a single reply
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
