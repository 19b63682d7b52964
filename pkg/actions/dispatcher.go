// Package actions executes classified intents and builds their replies.
package actions

import (
	"context"
	"log"

	"github.com/savaki/slack-relay/pkg/format"
	"github.com/savaki/slack-relay/pkg/models"
)

// Handler executes one kind of intent
type Handler interface {
	Handle(ctx context.Context, intent models.Intent) models.Response
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, intent models.Intent) models.Response

// Handle calls f(ctx, intent)
func (f HandlerFunc) Handle(ctx context.Context, intent models.Intent) models.Response {
	return f(ctx, intent)
}

// Dispatcher maps intents to handlers
type Dispatcher struct {
	handlers map[models.Action]Handler
}

// NewDispatcher creates a dispatcher with the built-in handlers registered
func NewDispatcher(products *ProductClient, storage *StorageLister) *Dispatcher {
	d := &Dispatcher{handlers: map[models.Action]Handler{}}
	d.Register(models.ActionLookupProduct, products)
	d.Register(models.ActionListStorage, storage)
	d.Register(models.ActionQueryDatabase, HandlerFunc(QueryDatabase))
	d.Register(models.ActionHelp, HandlerFunc(Help))
	d.Register(models.ActionAskProductID, HandlerFunc(AskProductID))
	d.Register(models.ActionUnknown, HandlerFunc(Unknown))
	return d
}

// Register sets the handler for an action, replacing any existing one
func (d *Dispatcher) Register(action models.Action, h Handler) {
	d.handlers[action] = h
}

// Dispatch runs the handler registered for the intent's action
func (d *Dispatcher) Dispatch(ctx context.Context, intent models.Intent) models.Response {
	h, ok := d.handlers[intent.Action]
	if !ok {
		log.Printf("No handler for action %q", intent.Action)
		return Unknown(ctx, intent)
	}
	return h.Handle(ctx, intent)
}

// QueryDatabase is a placeholder until database queries are supported
func QueryDatabase(_ context.Context, _ models.Intent) models.Response {
	return format.DatabasePending()
}

// Help returns usage instructions
func Help(_ context.Context, _ models.Intent) models.Response {
	return format.Help()
}

// AskProductID prompts for a missing product id
func AskProductID(_ context.Context, _ models.Intent) models.Response {
	return format.AskProductID()
}

// Unknown answers requests nothing could make sense of
func Unknown(_ context.Context, intent models.Intent) models.Response {
	if intent.Source == models.SourceAI {
		return format.NotUnderstood()
	}
	return format.CommandMenu()
}
