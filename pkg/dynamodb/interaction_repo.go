package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/savaki/slack-relay/pkg/models"
)

// ChannelIndex is the GSI keyed by channel_id and sorted by created_at
const ChannelIndex = "ChannelIndex"

// ErrNotFound is returned when an interaction does not exist
var ErrNotFound = errors.New("interaction not found")

// InteractionRepository handles DynamoDB operations for interaction audit records
type InteractionRepository struct {
	client    API
	tableName string
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(client API, tableName string) *InteractionRepository {
	return &InteractionRepository{
		client:    client,
		tableName: tableName,
	}
}

// Save stores an interaction record in DynamoDB
func (r *InteractionRepository) Save(ctx context.Context, interaction *models.Interaction) error {
	item, err := attributevalue.MarshalMap(interaction)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}

	log.Printf("Saved interaction %s to DynamoDB", interaction.InteractionID)
	return nil
}

// GetByID retrieves an interaction by ID
func (r *InteractionRepository) GetByID(ctx context.Context, interactionID string) (*models.Interaction, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"interaction_id": &types.AttributeValueMemberS{Value: interactionID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, interactionID)
	}

	var interaction models.Interaction
	if err := attributevalue.UnmarshalMap(result.Item, &interaction); err != nil {
		return nil, fmt.Errorf("unmarshal interaction: %w", err)
	}

	return &interaction, nil
}

// ListByChannel returns up to limit interactions for a channel, most recent first
func (r *InteractionRepository) ListByChannel(ctx context.Context, channelID string, limit int32) ([]*models.Interaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(ChannelIndex),
		KeyConditionExpression: aws.String("channel_id = :channelId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":channelId": &types.AttributeValueMemberS{Value: channelID},
		},
		ScanIndexForward: aws.Bool(false), // Most recent first
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query by channel: %w", err)
	}

	var interactions []*models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &interactions); err != nil {
		return nil, fmt.Errorf("unmarshal interactions: %w", err)
	}

	return interactions, nil
}
