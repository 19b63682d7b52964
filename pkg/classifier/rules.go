package classifier

import (
	"context"
	"regexp"
	"strings"

	"github.com/savaki/slack-relay/pkg/models"
)

var labeledProductIDPattern = regexp.MustCompile(`(?i)(?:상품번호|번호|제품번호|id)[\s:：]*([a-zA-Z0-9\-]+)`)

// ExtractProductID finds a product id introduced by a label such as 상품번호 or id
func ExtractProductID(text string) (string, bool) {
	m := labeledProductIDPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// APIKeywordRule handles "api 호출" requests
type APIKeywordRule struct{}

// Classify implements Strategy
func (APIKeywordRule) Classify(_ context.Context, text string) (models.Intent, bool) {
	if !HasAPIKeyword(text) {
		return models.Intent{}, false
	}

	id, ok := ExtractProductID(text)
	if !ok {
		return models.NewIntent(models.ActionAskProductID, models.SourceRule), true
	}

	intent := models.NewIntent(models.ActionLookupProduct, models.SourceRule)
	intent.Params[models.ParamProductID] = id
	return intent, true
}

// BareProductIDRule treats a message made of a single short token as a product id
type BareProductIDRule struct{}

// Classify implements Strategy
func (BareProductIDRule) Classify(_ context.Context, text string) (models.Intent, bool) {
	if !IsProductID(text) {
		return models.Intent{}, false
	}

	intent := models.NewIntent(models.ActionLookupProduct, models.SourceRule)
	intent.Params[models.ParamProductID] = strings.TrimSpace(text)
	return intent, true
}

// KeywordRule is the catch-all keyword matcher
type KeywordRule struct{}

// Classify implements Strategy and always matches
func (KeywordRule) Classify(_ context.Context, text string) (models.Intent, bool) {
	lower := strings.ToLower(text)

	var action models.Action
	switch {
	case strings.Contains(lower, "s3") && (strings.Contains(text, "목록") || strings.Contains(lower, "list")):
		action = models.ActionListStorage
	case strings.Contains(lower, "dynamodb") || strings.Contains(text, "데이터베이스"):
		action = models.ActionQueryDatabase
	case strings.Contains(text, "도움말") || strings.Contains(lower, "help"):
		action = models.ActionHelp
	default:
		action = models.ActionUnknown
	}

	return models.NewIntent(action, models.SourceKeyword), true
}
