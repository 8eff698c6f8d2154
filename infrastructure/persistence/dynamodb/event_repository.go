package dynamodb

import (
	"context"
	"fmt"
	"time"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// eventItem is the DynamoDB representation of a company event
type eventItem struct {
	PK         string   `dynamodbav:"PK"`     // EVENT#<event_id>
	SK         string   `dynamodbav:"SK"`     // METADATA
	GSI1PK     string   `dynamodbav:"GSI1PK"` // ENTITY#EVENT
	GSI1SK     string   `dynamodbav:"GSI1SK"` // <starts_at>
	GSI2PK     string   `dynamodbav:"GSI2PK"` // VENUE#<venue_id>
	GSI2SK     string   `dynamodbav:"GSI2SK"` // EVENT#<starts_at>
	EntityType string   `dynamodbav:"EntityType"`
	EventID    string   `dynamodbav:"EventID"`
	Title      string   `dynamodbav:"Title"`
	VenueID    string   `dynamodbav:"VenueID"`
	StartsAt   string   `dynamodbav:"StartsAt"`
	EndsAt     string   `dynamodbav:"EndsAt"`
	Capacity   int      `dynamodbav:"Capacity"`
	Attendees  []string `dynamodbav:"Attendees,omitempty"`
	Status     string   `dynamodbav:"EventStatus"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
	UpdatedAt  string   `dynamodbav:"UpdatedAt"`
	Version    int      `dynamodbav:"Version"`
}

// EventRepository implements ports.EventRepository using DynamoDB
type EventRepository struct {
	client        *dynamodb.Client
	tableName     string
	indexName     string
	gsi2IndexName string
	logger        *zap.Logger
}

// NewEventRepository creates a new DynamoDB event repository
func NewEventRepository(client *dynamodb.Client, tableName, indexName, gsi2IndexName string, logger *zap.Logger) *EventRepository {
	return &EventRepository{
		client:        client,
		tableName:     tableName,
		indexName:     indexName,
		gsi2IndexName: gsi2IndexName,
		logger:        logger,
	}
}

func eventToItem(event *entities.Event) eventItem {
	attendees := make([]string, 0, len(event.Attendees()))
	for _, id := range event.Attendees() {
		attendees = append(attendees, id.String())
	}

	start := event.Schedule().Start().Format(time.RFC3339Nano)

	return eventItem{
		PK:         fmt.Sprintf("EVENT#%s", event.ID().String()),
		SK:         "METADATA",
		GSI1PK:     "ENTITY#EVENT",
		GSI1SK:     start,
		GSI2PK:     fmt.Sprintf("VENUE#%s", event.VenueID().String()),
		GSI2SK:     fmt.Sprintf("EVENT#%s", start),
		EntityType: "EVENT",
		EventID:    event.ID().String(),
		Title:      event.Title(),
		VenueID:    event.VenueID().String(),
		StartsAt:   event.Schedule().Start().Format(time.RFC3339),
		EndsAt:     event.Schedule().End().Format(time.RFC3339),
		Capacity:   event.Capacity(),
		Attendees:  attendees,
		Status:     string(event.Status()),
		CreatedAt:  event.CreatedAt().Format(time.RFC3339),
		UpdatedAt:  event.UpdatedAt().Format(time.RFC3339),
		Version:    event.Version(),
	}
}

func itemToEvent(item eventItem) (*entities.Event, error) {
	id, err := valueobjects.NewEventIDFromString(item.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id in item: %w", err)
	}

	venueID, err := valueobjects.NewVenueIDFromString(item.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue id in item: %w", err)
	}

	start, err := time.Parse(time.RFC3339, item.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid start time in item: %w", err)
	}
	end, err := time.Parse(time.RFC3339, item.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid end time in item: %w", err)
	}

	schedule, err := valueobjects.NewSchedule(start, end)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule in item: %w", err)
	}

	attendees := make([]valueobjects.PreHireID, 0, len(item.Attendees))
	for _, raw := range item.Attendees {
		prehireID, err := valueobjects.NewPreHireIDFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid attendee id in item: %w", err)
		}
		attendees = append(attendees, prehireID)
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructEvent(
		id,
		item.Title,
		venueID,
		schedule,
		item.Capacity,
		attendees,
		entities.EventStatus(item.Status),
		createdAt,
		updatedAt,
		item.Version,
	)
}

// Save persists an event
func (r *EventRepository) Save(ctx context.Context, event *entities.Event) error {
	av, err := attributevalue.MarshalMap(eventToItem(event))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return errors.NewDatabaseError("save event", err)
	}

	r.logger.Debug("Event saved",
		zap.String("eventID", event.ID().String()),
		zap.String("status", string(event.Status())),
	)

	return nil
}

// GetByID retrieves an event by its ID
func (r *EventRepository) GetByID(ctx context.Context, id valueobjects.EventID) (*entities.Event, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENT#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, errors.NewDatabaseError("get event", err)
	}

	if result.Item == nil {
		return nil, errors.NewNotFoundError("event")
	}

	var item eventItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return itemToEvent(item)
}

// GetByVenueID retrieves all events booked at a venue, earliest first
func (r *EventRepository) GetByVenueID(ctx context.Context, venueID valueobjects.VenueID) ([]*entities.Event, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.gsi2IndexName),
		KeyConditionExpression: aws.String("GSI2PK = :pk AND begins_with(GSI2SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("VENUE#%s", venueID.String())},
			":sk": &types.AttributeValueMemberS{Value: "EVENT#"},
		},
		ScanIndexForward: aws.Bool(true),
	}

	events := make([]*entities.Event, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("query events by venue", err)
		}

		for _, raw := range result.Items {
			var item eventItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal event item", zap.Error(err))
				continue
			}

			event, err := itemToEvent(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct event",
					zap.String("eventID", item.EventID),
					zap.Error(err))
				continue
			}
			events = append(events, event)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return events, nil
}

// List retrieves events matching the given criteria, ordered by start time
func (r *EventRepository) List(ctx context.Context, criteria ports.ListCriteria) ([]*entities.Event, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "ENTITY#EVENT"},
		},
		ScanIndexForward: aws.Bool(!criteria.OrderDesc),
	}

	if criteria.Status != "" {
		input.FilterExpression = aws.String("EventStatus = :status")
		input.ExpressionAttributeValues[":status"] = &types.AttributeValueMemberS{Value: criteria.Status}
	}

	events := make([]*entities.Event, 0)
	skip := criteria.Offset

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("list events", err)
		}

		for _, raw := range result.Items {
			if skip > 0 {
				skip--
				continue
			}

			var item eventItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal event item", zap.Error(err))
				continue
			}

			event, err := itemToEvent(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct event",
					zap.String("eventID", item.EventID),
					zap.Error(err))
				continue
			}

			events = append(events, event)
			if criteria.Limit > 0 && len(events) >= criteria.Limit {
				return events, nil
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return events, nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id valueobjects.EventID) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENT#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return errors.NewDatabaseError("delete event", err)
	}

	r.logger.Debug("Event deleted", zap.String("eventID", id.String()))
	return nil
}
