package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AI provider names accepted in AI_PROVIDER
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// placeholderOpenAIKey is the value shipped in sample .env files
const placeholderOpenAIKey = "your-openai-api-key"

// Config holds application configuration loaded from environment variables
type Config struct {
	// AWS
	AWSRegion string `env:"AWS_REGION" envDefault:"ap-northeast-2"`

	// Slack
	SlackBotToken      string   `env:"SLACK_BOT_TOKEN"`
	SlackSigningSecret string   `env:"SLACK_SIGNING_SECRET"`
	AllowedChannels    []string `env:"ALLOWED_CHANNELS" envSeparator:","`
	MonitorChannels    []string `env:"MONITOR_CHANNELS" envSeparator:","`

	// AI classification
	AIProvider      string  `env:"AI_PROVIDER"`
	OpenAIAPIKey    string  `env:"OPENAI_API_KEY"`
	OpenAIModel     string  `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	AnthropicAPIKey string  `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string  `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-haiku-latest"`
	BedrockModelID  string  `env:"BEDROCK_MODEL_ID" envDefault:"anthropic.claude-3-5-sonnet-20241022-v2:0"`
	MinConfidence   float64 `env:"MIN_CONFIDENCE" envDefault:"0.7"`

	// Product API
	ProductAPIBaseURL string        `env:"PRODUCT_API_BASE_URL" envDefault:"http://15.164.221.43:8080"`
	ProductAPITimeout time.Duration `env:"PRODUCT_API_TIMEOUT" envDefault:"10s"`

	// DynamoDB
	InteractionsTable  string `env:"INTERACTIONS_TABLE"`
	InteractionTTLDays int    `env:"INTERACTION_TTL_DAYS" envDefault:"7"`

	// Server
	Port      int `env:"PORT" envDefault:"3000"`
	Workers   int `env:"WORKERS" envDefault:"8"`
	QueueSize int `env:"QUEUE_SIZE" envDefault:"100"`

	// Step Functions
	StepFunctionArn string `env:"STEP_FUNCTION_ARN"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
}

// Load reads configuration from a local .env file, if any, and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.AllowedChannels = normalizeList(cfg.AllowedChannels)
	cfg.MonitorChannels = normalizeList(cfg.MonitorChannels)
	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.SlackBotToken == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	if c.SlackSigningSecret == "" {
		return fmt.Errorf("SLACK_SIGNING_SECRET is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("WORKERS must be positive, got %d", c.Workers)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("QUEUE_SIZE must be positive, got %d", c.QueueSize)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("MIN_CONFIDENCE must be within [0,1], got %v", c.MinConfidence)
	}
	if c.ProductAPITimeout <= 0 {
		return fmt.Errorf("PRODUCT_API_TIMEOUT must be positive")
	}

	switch c.AIProvider {
	case "", ProviderOpenAI, ProviderBedrock:
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER=anthropic")
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}

	return nil
}

// ValidateLambda checks Lambda-specific configuration
func (c *Config) ValidateLambda() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.StepFunctionArn == "" {
		return fmt.Errorf("STEP_FUNCTION_ARN is required for Lambda")
	}
	return nil
}

// HasOpenAIKey reports whether a usable OpenAI key is configured
func (c *Config) HasOpenAIKey() bool {
	return c.OpenAIAPIKey != "" && c.OpenAIAPIKey != placeholderOpenAIKey
}

// ResolveAIProvider returns the AI backend to classify with, or "" when the
// AI fallback is disabled
func (c *Config) ResolveAIProvider() string {
	switch c.AIProvider {
	case ProviderOpenAI:
		if c.HasOpenAIKey() {
			return ProviderOpenAI
		}
		return ""
	case ProviderAnthropic, ProviderBedrock:
		return c.AIProvider
	}

	if c.HasOpenAIKey() {
		return ProviderOpenAI
	}
	return ""
}

// GetInteractionTTL returns how long interaction audit records are kept
func (c *Config) GetInteractionTTL() time.Duration {
	return time.Duration(c.InteractionTTLDays*24) * time.Hour
}

// ListenAddr returns the HTTP listen address
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MaskedBotToken returns the bot token prefix suitable for startup logs
func (c *Config) MaskedBotToken() string {
	if len(c.SlackBotToken) <= 10 {
		return "***"
	}
	return c.SlackBotToken[:10] + "..."
}

// Helper functions

func normalizeList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
