package handler

import (
	"context"

	"github.com/savaki/slack-relay/pkg/models"
	"github.com/savaki/slack-relay/pkg/worker"
)

// MessageHandler processes a single event to completion
type MessageHandler interface {
	HandleMessage(ctx context.Context, event models.InboundEvent)
}

// PoolScheduler runs events on a bounded worker pool
type PoolScheduler struct {
	pool    *worker.Pool
	handler MessageHandler
}

// NewPoolScheduler creates a scheduler submitting to pool
func NewPoolScheduler(pool *worker.Pool, handler MessageHandler) *PoolScheduler {
	return &PoolScheduler{pool: pool, handler: handler}
}

// Schedule enqueues the event; the request context is not carried over
func (s *PoolScheduler) Schedule(_ context.Context, event models.InboundEvent) error {
	return s.pool.Submit(func(ctx context.Context) {
		s.handler.HandleMessage(ctx, event)
	})
}
