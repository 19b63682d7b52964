package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/savaki/slack-relay/pkg/models"
	"github.com/savaki/slack-relay/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

type recordingScheduler struct {
	mu     sync.Mutex
	err    error
	events []models.InboundEvent
}

func (s *recordingScheduler) Schedule(ctx context.Context, event models.InboundEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func signedHeader(body []byte, at time.Time) http.Header {
	ts := strconv.FormatInt(at.Unix(), 10)
	h := http.Header{}
	h.Set(HeaderTimestamp, ts)
	h.Set(HeaderSignature, Sign(body, ts, testSecret))
	return h
}

func messageBody(text string) []byte {
	return []byte(`{"type":"event_callback","event_id":"Ev1","event":{"type":"app_mention","user":"U1","text":"` +
		text + `","channel":"C1","ts":"1700000000.000100"}}`)
}

func TestHandleWebhook(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		body       []byte
		header     func(body []byte) http.Header
		schedErr   error
		wantStatus int
		wantBody   any
		wantEvents int
	}{
		{
			name:       "url verification",
			body:       []byte(`{"type":"url_verification","challenge":"abc123"}`),
			wantStatus: http.StatusOK,
			wantBody:   challengeResponse{Challenge: "abc123"},
		},
		{
			name:       "message scheduled",
			body:       messageBody("hi"),
			wantStatus: http.StatusOK,
			wantBody:   statusOK,
			wantEvents: 1,
		},
		{
			name:       "bot message dropped",
			body:       []byte(`{"type":"event_callback","event":{"type":"message","bot_id":"B1","text":"hi","channel":"C1","ts":"1"}}`),
			wantStatus: http.StatusOK,
			wantBody:   statusOK,
		},
		{
			name:       "unknown envelope",
			body:       []byte(`{"type":"app_rate_limited"}`),
			wantStatus: http.StatusOK,
			wantBody:   statusOK,
		},
		{
			name:       "invalid json",
			body:       []byte(`{"type":`),
			wantStatus: http.StatusBadRequest,
			wantBody:   errorResponse{Error: "Invalid event format"},
		},
		{
			name: "bad signature",
			body: messageBody("hi"),
			header: func(body []byte) http.Header {
				h := signedHeader(body, now)
				h.Set(HeaderSignature, "v0=deadbeef")
				return h
			},
			wantStatus: http.StatusForbidden,
			wantBody:   errorResponse{Error: "Invalid request"},
		},
		{
			name:       "stale timestamp",
			body:       messageBody("hi"),
			header:     func(body []byte) http.Header { return signedHeader(body, now.Add(-10*time.Minute)) },
			wantStatus: http.StatusForbidden,
			wantBody:   errorResponse{Error: "Invalid request"},
		},
		{
			name:       "missing headers",
			body:       messageBody("hi"),
			header:     func(body []byte) http.Header { return http.Header{} },
			wantStatus: http.StatusForbidden,
			wantBody:   errorResponse{Error: "Invalid request"},
		},
		{
			name:       "queue full",
			body:       messageBody("hi"),
			schedErr:   worker.ErrQueueFull,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   errorResponse{Error: "Server busy"},
		},
		{
			name:       "scheduler failure",
			body:       messageBody("hi"),
			schedErr:   errors.New("states unavailable"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   errorResponse{Error: "Failed to schedule event"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &recordingScheduler{err: tt.schedErr}
			router := NewRouter(testSecret, sched)
			router.now = func() time.Time { return now }

			header := signedHeader(tt.body, now)
			if tt.header != nil {
				header = tt.header(tt.body)
			}

			status, body := router.HandleWebhook(context.Background(), header, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
			assert.Len(t, sched.events, tt.wantEvents)
		})
	}
}

func TestServeHTTP(t *testing.T) {
	sched := &recordingScheduler{}
	srv := httptest.NewServer(NewRouter(testSecret, sched))
	defer srv.Close()

	body := []byte(`{"type":"url_verification","challenge":"abc123"}`)
	req, err := http.NewRequest(http.MethodPost, srv.URL+EventsPath, bytes.NewReader(body))
	require.NoError(t, err)
	for k, v := range signedHeader(body, time.Now()) {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, map[string]string{"challenge": "abc123"}, got)
}

func TestServeHTTPRoutes(t *testing.T) {
	router := NewRouter(testSecret, &recordingScheduler{})

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, HealthPath, "", http.StatusOK},
		{http.MethodGet, EventsPath, "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/other", "", http.StatusNotFound},
		{http.MethodPost, EventsPath, strings.Repeat("a", MaxBodyBytes+1), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestIdenticalEventsPostTwice(t *testing.T) {
	notifier := &MockNotifier{}
	h := newTestHandler(notifier, &MockDispatcher{}, nil)

	pool := worker.New(2, 10)
	pool.Start(context.Background())
	router := NewRouter(testSecret, NewPoolScheduler(pool, h))

	body := messageBody("<@UBOT> 도움말")
	for i := 0; i < 2; i++ {
		status, _ := router.HandleWebhook(context.Background(), signedHeader(body, time.Now()), body)
		require.Equal(t, http.StatusOK, status)
	}

	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Len(t, notifier.Posts(), 2)
}

func TestPoolSchedulerBackpressure(t *testing.T) {
	pool := worker.New(1, 1) // never started, so the queue stays full
	router := NewRouter(testSecret, NewPoolScheduler(pool, &EventHandler{}))

	body := messageBody("hi")
	status, _ := router.HandleWebhook(context.Background(), signedHeader(body, time.Now()), body)
	require.Equal(t, http.StatusOK, status)

	status, resp := router.HandleWebhook(context.Background(), signedHeader(body, time.Now()), body)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, errorResponse{Error: "Server busy"}, resp)
}
