// Package classifier maps free-text Slack messages to intents.
//
// Strategies are tried in order and the first one that matches wins. The
// last strategy in a chain should always match.
package classifier

import (
	"context"

	"github.com/savaki/slack-relay/pkg/models"
)

// Strategy classifies text, returning false when it has no opinion
type Strategy interface {
	Classify(ctx context.Context, text string) (models.Intent, bool)
}

// StrategyFunc adapts a function to the Strategy interface
type StrategyFunc func(ctx context.Context, text string) (models.Intent, bool)

// Classify calls f(ctx, text)
func (f StrategyFunc) Classify(ctx context.Context, text string) (models.Intent, bool) {
	return f(ctx, text)
}

// Chain is an ordered list of strategies
type Chain struct {
	strategies []Strategy
}

// NewChain creates a chain that tries strategies in the given order
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// NewDefaultChain returns the standard rule, AI and keyword chain. A nil ai
// strategy disables the AI step.
func NewDefaultChain(ai *AIStrategy) *Chain {
	strategies := []Strategy{APIKeywordRule{}, BareProductIDRule{}}
	if ai != nil {
		strategies = append(strategies, ai)
	}
	strategies = append(strategies, KeywordRule{})
	return NewChain(strategies...)
}

// Classify returns the first matching intent, or unknown when nothing matches
func (c *Chain) Classify(ctx context.Context, text string) models.Intent {
	for _, s := range c.strategies {
		if intent, ok := s.Classify(ctx, text); ok {
			return intent
		}
	}
	return models.NewIntent(models.ActionUnknown, models.SourceKeyword)
}
