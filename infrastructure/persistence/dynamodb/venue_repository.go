package dynamodb

import (
	"context"
	"fmt"
	"time"

	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// venueItem is the DynamoDB representation of a venue
type venueItem struct {
	PK         string   `dynamodbav:"PK"`     // VENUE#<venue_id>
	SK         string   `dynamodbav:"SK"`     // METADATA
	GSI1PK     string   `dynamodbav:"GSI1PK"` // ENTITY#VENUE
	GSI1SK     string   `dynamodbav:"GSI1SK"` // <name>
	EntityType string   `dynamodbav:"EntityType"`
	VenueID    string   `dynamodbav:"VenueID"`
	Name       string   `dynamodbav:"VenueName"`
	Address    string   `dynamodbav:"Address"`
	Capacity   int      `dynamodbav:"Capacity"`
	Amenities  []string `dynamodbav:"Amenities,omitempty"`
	IsActive   bool     `dynamodbav:"IsActive"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
	UpdatedAt  string   `dynamodbav:"UpdatedAt"`
	Version    int      `dynamodbav:"Version"`
}

// VenueRepository implements ports.VenueRepository using DynamoDB
type VenueRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewVenueRepository creates a new DynamoDB venue repository
func NewVenueRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *VenueRepository {
	return &VenueRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

func venueToItem(venue *entities.Venue) venueItem {
	return venueItem{
		PK:         fmt.Sprintf("VENUE#%s", venue.ID().String()),
		SK:         "METADATA",
		GSI1PK:     "ENTITY#VENUE",
		GSI1SK:     venue.Name(),
		EntityType: "VENUE",
		VenueID:    venue.ID().String(),
		Name:       venue.Name(),
		Address:    venue.Address(),
		Capacity:   venue.Capacity(),
		Amenities:  venue.Amenities(),
		IsActive:   venue.IsActive(),
		CreatedAt:  venue.CreatedAt().Format(time.RFC3339),
		UpdatedAt:  venue.UpdatedAt().Format(time.RFC3339),
		Version:    venue.Version(),
	}
}

func itemToVenue(item venueItem) (*entities.Venue, error) {
	id, err := valueobjects.NewVenueIDFromString(item.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue id in item: %w", err)
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructVenue(
		id,
		item.Name,
		item.Address,
		item.Capacity,
		item.Amenities,
		item.IsActive,
		createdAt,
		updatedAt,
		item.Version,
	)
}

// Save persists a venue
func (r *VenueRepository) Save(ctx context.Context, venue *entities.Venue) error {
	av, err := attributevalue.MarshalMap(venueToItem(venue))
	if err != nil {
		return fmt.Errorf("failed to marshal venue: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return errors.NewDatabaseError("save venue", err)
	}

	r.logger.Debug("Venue saved", zap.String("venueID", venue.ID().String()))
	return nil
}

// GetByID retrieves a venue by its ID
func (r *VenueRepository) GetByID(ctx context.Context, id valueobjects.VenueID) (*entities.Venue, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("VENUE#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, errors.NewDatabaseError("get venue", err)
	}

	if result.Item == nil {
		return nil, errors.NewNotFoundError("venue")
	}

	var item venueItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venue: %w", err)
	}

	return itemToVenue(item)
}

// List retrieves venues ordered by name
func (r *VenueRepository) List(ctx context.Context, activeOnly bool) ([]*entities.Venue, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "ENTITY#VENUE"},
		},
		ScanIndexForward: aws.Bool(true),
	}

	if activeOnly {
		input.FilterExpression = aws.String("IsActive = :active")
		input.ExpressionAttributeValues[":active"] = &types.AttributeValueMemberBOOL{Value: true}
	}

	venues := make([]*entities.Venue, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("list venues", err)
		}

		for _, raw := range result.Items {
			var item venueItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal venue item", zap.Error(err))
				continue
			}

			venue, err := itemToVenue(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct venue",
					zap.String("venueID", item.VenueID),
					zap.Error(err))
				continue
			}
			venues = append(venues, venue)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return venues, nil
}

// Delete removes a venue
func (r *VenueRepository) Delete(ctx context.Context, id valueobjects.VenueID) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("VENUE#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return errors.NewDatabaseError("delete venue", err)
	}

	r.logger.Debug("Venue deleted", zap.String("venueID", id.String()))
	return nil
}
