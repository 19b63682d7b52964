package slack

import (
	"context"
	"fmt"
	"log"

	"github.com/savaki/slack-relay/pkg/models"
	"github.com/slack-go/slack"
)

// Client wraps the Slack SDK client for use throughout the application
type Client struct {
	client *slack.Client
}

// NewClient creates a new Slack client with bot token
func NewClient(botToken string, options ...slack.Option) *Client {
	return &Client{
		client: slack.New(botToken, options...),
	}
}

// GetRawClient returns the underlying slack.Client for advanced operations
func (c *Client) GetRawClient() *slack.Client {
	return c.client
}

// PostMessage posts a message to a Slack channel
func (c *Client) PostMessage(ctx context.Context, channelID string, opts ...slack.MsgOption) (string, error) {
	_, timestamp, err := c.client.PostMessageContext(ctx, channelID, opts...)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}

	return timestamp, nil
}

// PostReply posts a response into the thread rooted at threadTS
func (c *Client) PostReply(ctx context.Context, channelID, threadTS string, resp models.Response) error {
	opts := []slack.MsgOption{
		slack.MsgOptionText(resp.Text, false),
	}
	if len(resp.Blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(resp.Blocks...))
	}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}

	ts, err := c.PostMessage(ctx, channelID, opts...)
	if err != nil {
		log.Printf("Slack API error posting to %s: %v", channelID, err)
		return err
	}

	log.Printf("Posted reply %s to channel %s (thread %s)", ts, channelID, threadTS)
	return nil
}

// AuthTest verifies the bot token is valid
func (c *Client) AuthTest(ctx context.Context) (*slack.AuthTestResponse, error) {
	resp, err := c.client.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth test: %w", err)
	}

	return resp, nil
}

// GetBotUserID gets the bot's user ID for mention detection.
// Every call queries auth.test.
func (c *Client) GetBotUserID(ctx context.Context) (string, error) {
	resp, err := c.client.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("get bot user id: %w", err)
	}

	return resp.UserID, nil
}
