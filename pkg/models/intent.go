package models

// Action is the operation a user message was classified into
type Action string

// Actions understood by the dispatcher
const (
	ActionLookupProduct Action = "lookup_product"
	ActionListStorage   Action = "list_storage"
	ActionQueryDatabase Action = "query_database"
	ActionHelp          Action = "help"
	ActionUnknown       Action = "unknown"

	// ActionAskProductID asks the user for a product id when the API keyword
	// was given without one.
	ActionAskProductID Action = "ask_product_id"
)

// Source identifies which classifier produced an intent
type Source string

// Intent sources
const (
	SourceRule    Source = "rule"
	SourceAI      Source = "ai"
	SourceKeyword Source = "keyword"
)

// ParamProductID is the Params key holding an extracted product id
const ParamProductID = "product_id"

// Intent is the classified request of a single message
type Intent struct {
	Action     Action
	Params     map[string]string
	Confidence float64
	Source     Source

	// Name is the action name as reported by the classifier, which may not
	// map onto a known Action.
	Name string
}

// NewIntent returns a full-confidence intent from a rule-based classifier
func NewIntent(action Action, source Source) Intent {
	return Intent{
		Action:     action,
		Params:     map[string]string{},
		Confidence: 1,
		Source:     source,
		Name:       string(action),
	}
}

// Param returns the named parameter or the empty string
func (i Intent) Param(key string) string {
	if i.Params == nil {
		return ""
	}
	return i.Params[key]
}
