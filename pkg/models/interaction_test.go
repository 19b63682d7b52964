package models

import (
	"strings"
	"testing"
	"time"
)

func TestNewInteraction(t *testing.T) {
	event := InboundEvent{
		Channel: "C123456",
		User:    "U789ABC",
		TS:      "1700000000.000100",
		Text:    "<@UBOT> s3 목록",
	}
	intent := NewIntent(ActionListStorage, SourceKeyword)

	rec := NewInteraction(event, "s3 목록", intent, 0)

	if rec.ChannelID != event.Channel {
		t.Errorf("ChannelID = %s, want %s", rec.ChannelID, event.Channel)
	}

	if rec.UserID != event.User {
		t.Errorf("UserID = %s, want %s", rec.UserID, event.User)
	}

	if rec.MessageTS != event.TS {
		t.Errorf("MessageTS = %s, want %s", rec.MessageTS, event.TS)
	}

	if rec.Text != "s3 목록" {
		t.Errorf("Text = %s, want cleaned text", rec.Text)
	}

	if rec.Action != string(ActionListStorage) {
		t.Errorf("Action = %s, want %s", rec.Action, ActionListStorage)
	}

	if rec.Source != string(SourceKeyword) {
		t.Errorf("Source = %s, want %s", rec.Source, SourceKeyword)
	}

	if !strings.HasPrefix(rec.InteractionID, "int-") {
		t.Errorf("InteractionID should start with 'int-', got %s", rec.InteractionID)
	}

	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestInteractionUniqueIDs(t *testing.T) {
	intent := NewIntent(ActionHelp, SourceKeyword)
	a := NewInteraction(InboundEvent{Channel: "C1"}, "help", intent, time.Hour)
	b := NewInteraction(InboundEvent{Channel: "C1"}, "help", intent, time.Hour)

	if a.InteractionID == b.InteractionID {
		t.Error("InteractionIDs should be unique")
	}
}

func TestInteractionTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"default when zero", 0, DefaultInteractionTTL},
		{"default when negative", -time.Hour, DefaultInteractionTTL},
		{"custom", 48 * time.Hour, 48 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewInteraction(InboundEvent{}, "", NewIntent(ActionUnknown, SourceKeyword), tt.ttl)
			expected := time.Now().Add(tt.want).Unix()
			if diff := rec.TTL - expected; diff < -10 || diff > 10 {
				t.Errorf("TTL = %d, expected approximately %d", rec.TTL, expected)
			}
		})
	}
}

func TestInboundEventHelpers(t *testing.T) {
	tests := []struct {
		name        string
		event       InboundEvent
		isBot       bool
		isDM        bool
		replyThread string
		errorThread string
	}{
		{
			name:        "plain channel message",
			event:       InboundEvent{TS: "1.1"},
			replyThread: "1.1",
			errorThread: "1.1",
		},
		{
			name:        "threaded message replies in its own thread",
			event:       InboundEvent{TS: "2.2", ThreadTS: "1.1"},
			replyThread: "2.2",
			errorThread: "1.1",
		},
		{
			name:        "bot message",
			event:       InboundEvent{TS: "3.3", BotID: "B123"},
			isBot:       true,
			replyThread: "3.3",
			errorThread: "3.3",
		},
		{
			name:        "direct message",
			event:       InboundEvent{TS: "4.4", ChannelType: "im"},
			isDM:        true,
			replyThread: "4.4",
			errorThread: "4.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.IsBot(); got != tt.isBot {
				t.Errorf("IsBot() = %v, want %v", got, tt.isBot)
			}
			if got := tt.event.IsDirectMessage(); got != tt.isDM {
				t.Errorf("IsDirectMessage() = %v, want %v", got, tt.isDM)
			}
			if got := tt.event.ReplyThread(); got != tt.replyThread {
				t.Errorf("ReplyThread() = %s, want %s", got, tt.replyThread)
			}
			if got := tt.event.ErrorThread(); got != tt.errorThread {
				t.Errorf("ErrorThread() = %s, want %s", got, tt.errorThread)
			}
		})
	}
}

func TestIntentParam(t *testing.T) {
	var empty Intent
	if got := empty.Param(ParamProductID); got != "" {
		t.Errorf("Param() on nil map = %q, want empty", got)
	}

	intent := NewIntent(ActionLookupProduct, SourceRule)
	intent.Params[ParamProductID] = "X1-99"
	if got := intent.Param(ParamProductID); got != "X1-99" {
		t.Errorf("Param() = %q, want X1-99", got)
	}

	if intent.Confidence != 1 {
		t.Errorf("Confidence = %v, want 1", intent.Confidence)
	}
}
