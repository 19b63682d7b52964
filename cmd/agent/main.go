package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/savaki/slack-relay/pkg/app"
	"github.com/savaki/slack-relay/pkg/config"
	"github.com/savaki/slack-relay/pkg/models"
)

func main() {
	ctx := context.Background()

	// Get the event from environment (passed by Step Functions)
	payload := os.Getenv("EVENT_PAYLOAD")
	if payload == "" {
		log.Fatal("EVENT_PAYLOAD environment variable not set")
	}

	var event models.InboundEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Fatalf("Failed to parse EVENT_PAYLOAD: %v", err)
	}

	log.Printf("Starting agent for message %s in channel %s", event.TS, event.Channel)

	// Load application configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	awsCfg, err := app.LoadAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	app.NewEventHandler(cfg, awsCfg).HandleMessage(ctx, event)

	log.Printf("Agent completed for message %s", event.TS)
}
