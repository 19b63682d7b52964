package stepfunctions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/savaki/slack-relay/pkg/models"
)

// StartExecutionAPI is the subset of the Step Functions client used here
type StartExecutionAPI interface {
	StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error)
}

// Client is a wrapper around AWS Step Functions SDK
type Client struct {
	client          StartExecutionAPI
	stateMachineArn string
}

// NewClient creates a new Step Functions client for one state machine
func NewClient(cfg aws.Config, stateMachineArn string) *Client {
	return NewClientWithAPI(sfn.NewFromConfig(cfg), stateMachineArn)
}

// NewClientWithAPI creates a client around an existing Step Functions API
func NewClientWithAPI(api StartExecutionAPI, stateMachineArn string) *Client {
	return &Client{
		client:          api,
		stateMachineArn: stateMachineArn,
	}
}

// StartEvent starts an execution that processes event and returns its ARN.
// The execution input is the event JSON.
func (c *Client) StartEvent(ctx context.Context, event models.InboundEvent) (string, error) {
	inputJSON, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal input: %w", err)
	}

	result, err := c.client.StartExecution(ctx, &sfn.StartExecutionInput{
		StateMachineArn: aws.String(c.stateMachineArn),
		Input:           aws.String(string(inputJSON)),
		Name:            aws.String("evt-" + models.NewULID(time.Now())),
	})
	if err != nil {
		return "", fmt.Errorf("start execution: %w", err)
	}

	return aws.ToString(result.ExecutionArn), nil
}

// Schedule implements the webhook scheduler by starting an execution
func (c *Client) Schedule(ctx context.Context, event models.InboundEvent) error {
	arn, err := c.StartEvent(ctx, event)
	if err != nil {
		return err
	}
	log.Printf("Started execution %s for message %s in channel %s", arn, event.TS, event.Channel)
	return nil
}
