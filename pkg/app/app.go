// Package app wires configuration into the message pipeline shared by the
// HTTP server, the Lambda handler and the agent task.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/savaki/slack-relay/pkg/actions"
	"github.com/savaki/slack-relay/pkg/bedrock"
	"github.com/savaki/slack-relay/pkg/classifier"
	"github.com/savaki/slack-relay/pkg/config"
	"github.com/savaki/slack-relay/pkg/dynamodb"
	"github.com/savaki/slack-relay/pkg/handler"
	"github.com/savaki/slack-relay/pkg/llm"
	slackclient "github.com/savaki/slack-relay/pkg/slack"
)

// LoadAWSConfig loads the default AWS configuration for the configured region
func LoadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// NewCompleter returns the AI backend selected by cfg, or nil when AI
// classification is disabled
func NewCompleter(cfg *config.Config, awsCfg aws.Config) llm.Completer {
	switch cfg.ResolveAIProvider() {
	case config.ProviderOpenAI:
		log.Printf("AI classification via OpenAI (%s)", cfg.OpenAIModel)
		return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case config.ProviderAnthropic:
		log.Printf("AI classification via Anthropic (%s)", cfg.AnthropicModel)
		return llm.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case config.ProviderBedrock:
		log.Printf("AI classification via Bedrock (%s)", cfg.BedrockModelID)
		client := bedrock.NewClient(awsCfg)
		client.SetModel(cfg.BedrockModelID)
		return client
	default:
		log.Printf("AI classification disabled, using keyword rules only")
		return nil
	}
}

// NewEventHandler builds the full message pipeline
func NewEventHandler(cfg *config.Config, awsCfg aws.Config) *handler.EventHandler {
	slackClient := slackclient.NewClient(cfg.SlackBotToken)

	gate := classifier.NewGate(cfg.AllowedChannels, cfg.MonitorChannels)
	chain := classifier.NewDefaultChain(classifier.NewAIStrategy(NewCompleter(cfg, awsCfg)))
	dispatcher := actions.NewDispatcher(
		actions.NewProductClient(cfg.ProductAPIBaseURL, cfg.ProductAPITimeout),
		actions.NewStorageLister(awsCfg),
	)

	h := handler.NewEventHandler(slackClient, gate, chain, dispatcher)
	h.SetMinConfidence(cfg.MinConfidence)

	if cfg.InteractionsTable != "" {
		repo := dynamodb.NewInteractionRepository(dynamodb.NewClientWithConfig(awsCfg), cfg.InteractionsTable)
		h.SetRecorder(repo, cfg.GetInteractionTTL())
		log.Printf("Recording interactions to %s", cfg.InteractionsTable)
	}

	return h
}
