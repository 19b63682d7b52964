package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/savaki/slack-relay/pkg/app"
	"github.com/savaki/slack-relay/pkg/config"
	"github.com/savaki/slack-relay/pkg/handler"
	"github.com/savaki/slack-relay/pkg/stepfunctions"
)

var (
	initOnce sync.Once
	router   *handler.Router
	initErr  error
)

// setup builds the router once per Lambda container
func setup(ctx context.Context) (*handler.Router, error) {
	initOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}

		// Validate Lambda-specific configuration
		if err := cfg.ValidateLambda(); err != nil {
			initErr = err
			return
		}

		awsCfg, err := app.LoadAWSConfig(ctx, cfg)
		if err != nil {
			initErr = err
			return
		}

		scheduler := stepfunctions.NewClient(awsCfg, cfg.StepFunctionArn)
		router = handler.NewRouter(cfg.SlackSigningSecret, scheduler)
	})
	return router, initErr
}

// Handler is the Lambda handler for Slack events
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Printf("Received Slack event")

	r, err := setup(ctx)
	if err != nil {
		log.Printf("ERROR: Failed to load config: %v", err)
		return jsonResponse(http.StatusInternalServerError, map[string]string{"error": "Failed to load config"}), nil
	}

	if len(request.Body) > handler.MaxBodyBytes {
		return jsonResponse(http.StatusRequestEntityTooLarge, map[string]string{"error": "Request too large"}), nil
	}

	header := http.Header{}
	for k, v := range request.Headers {
		header.Set(k, v)
	}

	status, body := r.HandleWebhook(ctx, header, []byte(request.Body))
	return jsonResponse(status, body), nil
}

// jsonResponse returns an API Gateway response with a JSON body
func jsonResponse(status int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("ERROR: marshal response: %v", err)
		status, data = http.StatusInternalServerError, []byte(`{"error":"internal error"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(data),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(Handler)
}
