package models

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Interaction is the audit record of one handled message
type Interaction struct {
	InteractionID string    `dynamodbav:"interaction_id"`
	ChannelID     string    `dynamodbav:"channel_id"`
	UserID        string    `dynamodbav:"user_id"`
	MessageTS     string    `dynamodbav:"message_ts"`
	Text          string    `dynamodbav:"text"`
	Action        string    `dynamodbav:"action"`
	Source        string    `dynamodbav:"source"`
	Confidence    float64   `dynamodbav:"confidence"`
	Dispatched    bool      `dynamodbav:"dispatched"`
	CreatedAt     time.Time `dynamodbav:"created_at"`
	TTL           int64     `dynamodbav:"ttl"` // Unix timestamp
}

// DefaultInteractionTTL is how long audit records are kept when unset
const DefaultInteractionTTL = 7 * 24 * time.Hour

// NewInteraction creates an audit record for a classified event
func NewInteraction(event InboundEvent, text string, intent Intent, ttl time.Duration) *Interaction {
	if ttl <= 0 {
		ttl = DefaultInteractionTTL
	}
	now := time.Now()

	return &Interaction{
		InteractionID: generateInteractionID(now),
		ChannelID:     event.Channel,
		UserID:        event.User,
		MessageTS:     event.TS,
		Text:          text,
		Action:        intent.Name,
		Source:        string(intent.Source),
		Confidence:    intent.Confidence,
		CreatedAt:     now,
		TTL:           now.Add(ttl).Unix(),
	}
}

// generateInteractionID creates a unique, time-sortable identifier
func generateInteractionID(now time.Time) string {
	return "int-" + NewULID(now)
}

// NewULID generates a ULID string for the given time
func NewULID(now time.Time) string {
	id, _ := ulid.New(ulid.Timestamp(now), rand.Reader)
	return id.String()
}
