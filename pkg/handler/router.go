package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/savaki/slack-relay/pkg/models"
	"github.com/savaki/slack-relay/pkg/worker"
)

// MaxBodyBytes caps the size of an inbound webhook body
const MaxBodyBytes = 1 << 20

// Slack header names
const (
	HeaderTimestamp = "X-Slack-Request-Timestamp"
	HeaderSignature = "X-Slack-Signature"
)

// Routes served by Router
const (
	EventsPath = "/slack/events"
	HealthPath = "/healthz"
)

// Scheduler hands an accepted event to background processing
type Scheduler interface {
	Schedule(ctx context.Context, event models.InboundEvent) error
}

// Router verifies inbound webhooks and routes them by envelope type
type Router struct {
	signingSecret string
	scheduler     Scheduler
	now           func() time.Time
}

// NewRouter creates a router for the given signing secret
func NewRouter(signingSecret string, scheduler Scheduler) *Router {
	return &Router{
		signingSecret: signingSecret,
		scheduler:     scheduler,
		now:           time.Now,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type challengeResponse struct {
	Challenge string `json:"challenge"`
}

var statusOK = statusResponse{Status: "ok"}

// HandleWebhook processes one webhook request and returns the HTTP status
// code and JSON-encodable body to answer with
func (r *Router) HandleWebhook(ctx context.Context, header http.Header, body []byte) (int, any) {
	err := VerifyRequest(body, header.Get(HeaderTimestamp), header.Get(HeaderSignature), r.signingSecret, r.now())
	if err != nil {
		log.Printf("Rejected Slack request: %v", err)
		return http.StatusForbidden, errorResponse{Error: "Invalid request"}
	}

	var callback models.SlackEventCallback
	if err := json.Unmarshal(body, &callback); err != nil {
		log.Printf("Failed to parse event: %v", err)
		return http.StatusBadRequest, errorResponse{Error: "Invalid event format"}
	}

	switch callback.Type {
	case models.TypeURLVerification:
		log.Printf("Answering url_verification challenge")
		return http.StatusOK, challengeResponse{Challenge: callback.Challenge}

	case models.TypeEventCallback:
		event := callback.Event
		if event.IsBot() {
			return http.StatusOK, statusOK
		}

		if err := r.scheduler.Schedule(ctx, event); err != nil {
			if errors.Is(err, worker.ErrQueueFull) || errors.Is(err, worker.ErrClosed) {
				log.Printf("Warning: dropping event %s from channel %s: %v", callback.EventID, event.Channel, err)
				return http.StatusServiceUnavailable, errorResponse{Error: "Server busy"}
			}
			log.Printf("ERROR: failed to schedule event %s: %v", callback.EventID, err)
			return http.StatusInternalServerError, errorResponse{Error: "Failed to schedule event"}
		}
		return http.StatusOK, statusOK

	default:
		log.Printf("Ignoring envelope type %q", callback.Type)
		return http.StatusOK, statusOK
	}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch {
	case req.URL.Path == HealthPath && req.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, statusOK)

	case req.URL.Path == EventsPath && req.Method == http.MethodPost:
		body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request too large"})
				return
			}
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid event format"})
			return
		}
		status, resp := r.HandleWebhook(req.Context(), req.Header, body)
		writeJSON(w, status, resp)

	case req.URL.Path == EventsPath || req.URL.Path == HealthPath:
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})

	default:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
