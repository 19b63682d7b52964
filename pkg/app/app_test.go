package app

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/savaki/slack-relay/pkg/bedrock"
	"github.com/savaki/slack-relay/pkg/config"
	"github.com/savaki/slack-relay/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompleter(t *testing.T) {
	awsCfg := aws.Config{Region: "ap-northeast-2"}

	tests := []struct {
		name  string
		cfg   config.Config
		check func(t *testing.T, c llm.Completer)
	}{
		{
			name:  "disabled",
			cfg:   config.Config{},
			check: func(t *testing.T, c llm.Completer) { assert.Nil(t, c) },
		},
		{
			name:  "openai from key",
			cfg:   config.Config{OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-3.5-turbo"},
			check: func(t *testing.T, c llm.Completer) { assert.IsType(t, &llm.OpenAI{}, c) },
		},
		{
			name:  "anthropic",
			cfg:   config.Config{AIProvider: config.ProviderAnthropic, AnthropicAPIKey: "k"},
			check: func(t *testing.T, c llm.Completer) { assert.IsType(t, &llm.Anthropic{}, c) },
		},
		{
			name:  "bedrock",
			cfg:   config.Config{AIProvider: config.ProviderBedrock},
			check: func(t *testing.T, c llm.Completer) { assert.IsType(t, &bedrock.Client{}, c) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NewCompleter(&tt.cfg, awsCfg))
		})
	}
}

func TestNewEventHandler(t *testing.T) {
	cfg := &config.Config{
		SlackBotToken:      "xoxb-test",
		SlackSigningSecret: "secret",
		AllowedChannels:    []string{"C1"},
		MinConfidence:      0.7,
		ProductAPIBaseURL:  "http://127.0.0.1:8080",
		InteractionsTable:  "interactions",
		InteractionTTLDays: 7,
	}

	h := NewEventHandler(cfg, aws.Config{Region: "ap-northeast-2"})
	require.NotNil(t, h)
}
