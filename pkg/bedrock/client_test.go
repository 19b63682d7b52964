package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/savaki/slack-relay/pkg/llm"
)

// MockInvokeModelAPI mocks the Bedrock runtime for testing
type MockInvokeModelAPI struct {
	InvokeModelFunc func(ctx context.Context, params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error)
}

var _ InvokeModelAPI = (*MockInvokeModelAPI)(nil)

func (m *MockInvokeModelAPI) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	return m.InvokeModelFunc(ctx, params)
}

func TestComplete(t *testing.T) {
	var captured BedrockRequest
	var modelID string
	mock := &MockInvokeModelAPI{
		InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
			modelID = aws.ToString(params.ModelId)
			if err := json.Unmarshal(params.Body, &captured); err != nil {
				t.Fatalf("request body is not JSON: %v", err)
			}
			return &bedrockruntime.InvokeModelOutput{
				Body: []byte(`{"content":[{"type":"text","text":"{\"action\":\"help\"}"}]}`),
			}, nil
		},
	}

	client := NewClientWithAPI(mock)
	client.SetModel("anthropic.claude-3-haiku-20240307-v1:0")

	out, err := client.Complete(context.Background(), "classify", "도움말")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if out != `{"action":"help"}` {
		t.Errorf("Complete() = %s", out)
	}

	if modelID != "anthropic.claude-3-haiku-20240307-v1:0" {
		t.Errorf("ModelId = %s", modelID)
	}

	if captured.System != "classify" {
		t.Errorf("System = %s, want classify", captured.System)
	}

	if captured.MaxTokens != llm.MaxTokens {
		t.Errorf("MaxTokens = %d, want %d", captured.MaxTokens, llm.MaxTokens)
	}

	if captured.Temperature != llm.Temperature {
		t.Errorf("Temperature = %v, want %v", captured.Temperature, llm.Temperature)
	}

	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Errorf("Messages = %+v", captured.Messages)
	}
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name   string
		user   string
		output *bedrockruntime.InvokeModelOutput
		err    error
	}{
		{
			name: "empty message",
			user: "",
		},
		{
			name: "invoke failure",
			user: "hi",
			err:  errors.New("throttled"),
		},
		{
			name:   "invalid json",
			user:   "hi",
			output: &bedrockruntime.InvokeModelOutput{Body: []byte("not json")},
		},
		{
			name:   "empty content",
			user:   "hi",
			output: &bedrockruntime.InvokeModelOutput{Body: []byte(`{"content":[]}`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockInvokeModelAPI{
				InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
					return tt.output, tt.err
				},
			}
			if _, err := NewClientWithAPI(mock).Complete(context.Background(), "s", tt.user); err == nil {
				t.Error("Complete() should return an error")
			}
		})
	}
}

func TestSetModelIgnoresEmpty(t *testing.T) {
	client := NewClientWithAPI(&MockInvokeModelAPI{})
	client.SetModel("")
	if client.modelID != DefaultModelID {
		t.Errorf("modelID = %s, want %s", client.modelID, DefaultModelID)
	}
}
