package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/savaki/slack-relay/pkg/llm"
	"github.com/savaki/slack-relay/pkg/models"
)

// ErrNoCompleter is returned when an AI strategy has no backend
var ErrNoCompleter = errors.New("no completer configured")

// SystemPrompt instructs the model to answer with a JSON intent
const SystemPrompt = `당신은 AWS 서비스 요청을 분석하는 어시스턴트입니다.
사용자의 자연어 요청을 분석하여 아래 형식의 JSON 하나로만 답하세요:
{
  "action": "작업 유형",
  "parameters": {"필요한 파라미터"},
  "confidence": 0.0에서 1.0 사이의 확신도
}

action 으로 사용할 수 있는 값:
- list_s3: S3 버킷 목록 조회
- query_dynamodb: DynamoDB 조회
- help: 도움말 요청
- unknown: 알 수 없는 요청

예시:
- "S3 버킷들 보여줘" → {"action": "list_s3", "parameters": {}, "confidence": 0.95}
- "버킷 목록 알려줘" → {"action": "list_s3", "parameters": {}, "confidence": 0.9}
- "데이터베이스 조회" → {"action": "query_dynamodb", "parameters": {}, "confidence": 0.85}`

var aiActions = map[string]models.Action{
	"list_s3":        models.ActionListStorage,
	"query_dynamodb": models.ActionQueryDatabase,
	"help":           models.ActionHelp,
	"unknown":        models.ActionUnknown,
}

// AIStrategy classifies text with a language model
type AIStrategy struct {
	completer llm.Completer
}

// NewAIStrategy returns nil when completer is nil so callers can pass the
// result straight to NewDefaultChain
func NewAIStrategy(completer llm.Completer) *AIStrategy {
	if completer == nil {
		return nil
	}
	return &AIStrategy{completer: completer}
}

// Classify implements Strategy. Failures are logged and reported as no match.
func (s *AIStrategy) Classify(ctx context.Context, text string) (models.Intent, bool) {
	intent, err := s.Analyze(ctx, text)
	if err != nil {
		log.Printf("AI classification failed, falling back to keywords: %v", err)
		return models.Intent{}, false
	}
	return intent, true
}

// Analyze asks the model for an intent
func (s *AIStrategy) Analyze(ctx context.Context, text string) (models.Intent, error) {
	if s == nil || s.completer == nil {
		return models.Intent{}, ErrNoCompleter
	}

	reply, err := s.completer.Complete(ctx, SystemPrompt, text)
	if err != nil {
		return models.Intent{}, err
	}

	return ParseIntent(reply)
}

type aiReply struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
	Confidence *float64       `json:"confidence"`
}

// ParseIntent decodes the model's JSON reply, tolerating markdown code fences
func ParseIntent(reply string) (models.Intent, error) {
	var r aiReply
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &r); err != nil {
		return models.Intent{}, fmt.Errorf("parse ai reply: %w", err)
	}
	if r.Confidence == nil || math.IsNaN(*r.Confidence) {
		return models.Intent{}, fmt.Errorf("parse ai reply: missing confidence")
	}

	action, ok := aiActions[r.Action]
	if !ok {
		action = models.ActionUnknown
	}

	params := make(map[string]string, len(r.Parameters))
	for k, v := range r.Parameters {
		params[k] = fmt.Sprint(v)
	}

	return models.Intent{
		Action:     action,
		Params:     params,
		Confidence: math.Min(1, math.Max(0, *r.Confidence)),
		Source:     models.SourceAI,
		Name:       r.Action,
	}, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
