package models

// InboundEvent is the message event nested inside a Slack event callback
type InboundEvent struct {
	Type        string `json:"type"`
	User        string `json:"user"`
	Text        string `json:"text"`
	Channel     string `json:"channel"`
	TS          string `json:"ts"`
	ThreadTS    string `json:"thread_ts,omitempty"`
	ChannelType string `json:"channel_type,omitempty"`
	BotID       string `json:"bot_id,omitempty"`
	SubType     string `json:"subtype,omitempty"`
}

// IsBot reports whether the event was produced by a bot, including this one
func (e InboundEvent) IsBot() bool {
	return e.BotID != ""
}

// IsDirectMessage reports whether the event arrived in a DM with the bot
func (e InboundEvent) IsDirectMessage() bool {
	return e.ChannelType == ChannelTypeIM
}

// ReplyThread returns the thread a reply should start: the message's own ts
func (e InboundEvent) ReplyThread() string {
	return e.TS
}

// ErrorThread returns the thread used for error replies
func (e InboundEvent) ErrorThread() string {
	if e.ThreadTS != "" {
		return e.ThreadTS
	}
	return e.TS
}

// SlackEventCallback is the envelope Slack posts to the events endpoint
type SlackEventCallback struct {
	Type      string       `json:"type"`
	Challenge string       `json:"challenge,omitempty"`
	Token     string       `json:"token,omitempty"`
	TeamID    string       `json:"team_id,omitempty"`
	EventID   string       `json:"event_id,omitempty"`
	EventTime int64        `json:"event_time,omitempty"`
	Event     InboundEvent `json:"event"`
}

// Envelope and event type constants
const (
	TypeURLVerification = "url_verification"
	TypeEventCallback   = "event_callback"

	ChannelTypeIM = "im"
)
