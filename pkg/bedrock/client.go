package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/savaki/slack-relay/pkg/llm"
)

const (
	// Default Bedrock model ID for Claude 3.5 Sonnet
	DefaultModelID = "anthropic.claude-3-5-sonnet-20241022-v2:0"
)

// InvokeModelAPI is the subset of the Bedrock runtime client used here
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client is a client for AWS Bedrock Runtime (Claude models)
type Client struct {
	client  InvokeModelAPI
	modelID string
}

// Verify Client satisfies the completer interface
var _ llm.Completer = (*Client)(nil)

// NewClient creates a new Bedrock client
func NewClient(cfg aws.Config) *Client {
	return NewClientWithAPI(bedrockruntime.NewFromConfig(cfg))
}

// NewClientWithAPI creates a Bedrock client around an existing runtime API
func NewClientWithAPI(api InvokeModelAPI) *Client {
	return &Client{
		client:  api,
		modelID: DefaultModelID,
	}
}

// SetModel allows overriding the default model ID
func (c *Client) SetModel(modelID string) {
	if modelID != "" {
		c.modelID = modelID
	}
}

// Message is a single turn in the Claude Messages API format
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BedrockRequest represents a request to Bedrock (Claude Messages API format)
type BedrockRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	Messages         []Message `json:"messages"`
	System           string    `json:"system,omitempty"`
}

// BedrockResponse represents a response from Bedrock
type BedrockResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends a single user message with a system prompt to Claude via Bedrock
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if user == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	// Build request in Claude Messages API format
	req := BedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        llm.MaxTokens,
		Temperature:      llm.Temperature,
		Messages:         []Message{{Role: "user", Content: user}},
		System:           system,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	output, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoke bedrock model: %w", err)
	}

	var response BedrockResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("empty response from Bedrock")
	}

	return response.Content[0].Text, nil
}
