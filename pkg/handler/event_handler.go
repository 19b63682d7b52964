package handler

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/savaki/slack-relay/pkg/classifier"
	"github.com/savaki/slack-relay/pkg/format"
	"github.com/savaki/slack-relay/pkg/models"
)

// DefaultMinConfidence is the AI confidence below which a request is not acted on
const DefaultMinConfidence = 0.7

// Notifier posts replies to Slack and identifies the bot
type Notifier interface {
	PostReply(ctx context.Context, channelID, threadTS string, resp models.Response) error
	GetBotUserID(ctx context.Context) (string, error)
}

// Dispatcher executes an intent
type Dispatcher interface {
	Dispatch(ctx context.Context, intent models.Intent) models.Response
}

// InteractionRecorder stores audit records
type InteractionRecorder interface {
	Save(ctx context.Context, interaction *models.Interaction) error
}

// EventHandler runs the message pipeline for one inbound event
type EventHandler struct {
	notifier      Notifier
	gate          *classifier.Gate
	chain         *classifier.Chain
	dispatcher    Dispatcher
	recorder      InteractionRecorder
	minConfidence float64
	ttl           time.Duration
}

// NewEventHandler creates a new event handler
func NewEventHandler(notifier Notifier, gate *classifier.Gate, chain *classifier.Chain, dispatcher Dispatcher) *EventHandler {
	return &EventHandler{
		notifier:      notifier,
		gate:          gate,
		chain:         chain,
		dispatcher:    dispatcher,
		minConfidence: DefaultMinConfidence,
		ttl:           models.DefaultInteractionTTL,
	}
}

// SetMinConfidence overrides the AI confidence threshold
func (h *EventHandler) SetMinConfidence(v float64) {
	h.minConfidence = v
}

// SetRecorder enables interaction auditing with the given retention
func (h *EventHandler) SetRecorder(recorder InteractionRecorder, ttl time.Duration) {
	h.recorder = recorder
	h.ttl = ttl
}

// HandleMessage processes an event and answers any failure in the event's
// thread. It never panics.
func (h *EventHandler) HandleMessage(ctx context.Context, event models.InboundEvent) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("ERROR: panic handling message: %v\n%s", r, debug.Stack())
				err = fmt.Errorf("%v", r)
			}
		}()
		err = h.Process(ctx, event)
	}()

	if err == nil {
		return
	}

	log.Printf("ERROR: failed to handle message in channel %s: %v", event.Channel, err)
	if postErr := h.notifier.PostReply(ctx, event.Channel, event.ErrorThread(), format.GenericError(err)); postErr != nil {
		log.Printf("ERROR: failed to post error reply: %v", postErr)
	}
}

// Process runs admission, classification and dispatch, then posts the reply
func (h *EventHandler) Process(ctx context.Context, event models.InboundEvent) error {
	if !h.gate.AdmitChannel(event.Channel) {
		return nil
	}

	botUserID, err := h.notifier.GetBotUserID(ctx)
	if err != nil {
		log.Printf("Warning: could not resolve bot user id: %v", err)
		botUserID = ""
	}

	text, ok := h.gate.Trigger(event, botUserID)
	if !ok {
		return nil
	}

	log.Printf("Handling message from user %s in channel %s", event.User, event.Channel)

	intent := h.chain.Classify(ctx, text)
	log.Printf("Classified as %s (source %s, confidence %.2f)", intent.Action, intent.Source, intent.Confidence)

	var resp models.Response
	dispatched := false
	if intent.Source == models.SourceAI && intent.Confidence < h.minConfidence {
		log.Printf("Confidence %.2f below %.2f, asking user to rephrase", intent.Confidence, h.minConfidence)
		resp = format.Rephrase(intent.Name)
	} else {
		resp = h.dispatcher.Dispatch(ctx, intent)
		dispatched = true
	}

	h.record(ctx, event, text, intent, dispatched)

	if err := h.notifier.PostReply(ctx, event.Channel, event.ReplyThread(), resp); err != nil {
		return fmt.Errorf("post reply: %w", err)
	}
	return nil
}

func (h *EventHandler) record(ctx context.Context, event models.InboundEvent, text string, intent models.Intent, dispatched bool) {
	if h.recorder == nil {
		return
	}

	interaction := models.NewInteraction(event, text, intent, h.ttl)
	interaction.Dispatched = dispatched
	if err := h.recorder.Save(ctx, interaction); err != nil {
		log.Printf("Warning: failed to record interaction: %v", err)
	}
}
