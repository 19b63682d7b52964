package classifier

import (
	"log"
	"regexp"
	"strings"

	"github.com/savaki/slack-relay/pkg/models"
)

// MaxProductIDLength is the exclusive upper bound on bare product id length
const MaxProductIDLength = 20

var productIDPattern = regexp.MustCompile(`^[a-zA-Z0-9\-]+$`)

// IsProductID reports whether text, once trimmed, looks like a bare product id
func IsProductID(text string) bool {
	text = strings.TrimSpace(text)
	return len(text) < MaxProductIDLength && productIDPattern.MatchString(text)
}

// HasAPIKeyword reports whether text asks for an API call
func HasAPIKeyword(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "api 호출") || strings.Contains(lower, "api호출")
}

// Gate decides which messages the bot reacts to
type Gate struct {
	allowed map[string]struct{}
	monitor map[string]struct{}
}

// NewGate creates a gate from the allow-list and monitor-list channel ids
func NewGate(allowed, monitor []string) *Gate {
	return &Gate{
		allowed: toSet(allowed),
		monitor: toSet(monitor),
	}
}

// AdmitChannel applies the allow-list. Monitored channels always pass.
func (g *Gate) AdmitChannel(channel string) bool {
	if len(g.allowed) == 0 {
		return true
	}
	if g.isAllowed(channel) || g.isMonitored(channel) {
		return true
	}
	log.Printf("Channel %s is not allowed, ignoring", channel)
	return false
}

// Trigger reports whether the event should be answered and returns its text
// with every mention of the bot removed
func (g *Gate) Trigger(event models.InboundEvent, botUserID string) (string, bool) {
	text := event.Text

	mention := ""
	isMention := false
	if botUserID != "" {
		mention = "<@" + botUserID + ">"
		isMention = strings.Contains(text, mention)
	}

	isKeyword := false
	if len(g.allowed) > 0 && g.isAllowed(event.Channel) {
		if HasAPIKeyword(text) {
			log.Printf("API keyword detected in channel %s", event.Channel)
			isKeyword = true
		} else if IsProductID(text) {
			log.Printf("Product id candidate detected: %s", strings.TrimSpace(text))
			isKeyword = true
		}
	}

	if !isMention && !event.IsDirectMessage() && !g.isMonitored(event.Channel) && !isKeyword {
		return "", false
	}

	if mention != "" {
		text = strings.ReplaceAll(text, mention, "")
	}
	return strings.TrimSpace(text), true
}

func (g *Gate) isAllowed(channel string) bool {
	_, ok := g.allowed[channel]
	return ok
}

func (g *Gate) isMonitored(channel string) bool {
	_, ok := g.monitor[channel]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
