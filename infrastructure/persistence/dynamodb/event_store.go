package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DynamoDBEventStore implements the EventStore interface using DynamoDB
type DynamoDBEventStore struct {
	client        *dynamodb.Client
	tableName     string
	gsi2IndexName string
}

// PublishStatus represents the publishing status of an event
type PublishStatus string

const (
	PublishStatusPending   PublishStatus = "pending"   // Event is saved but not yet published
	PublishStatusPublished PublishStatus = "published" // Event successfully published
	PublishStatusFailed    PublishStatus = "failed"    // Event publishing failed
)

// maxPublishAttempts is how often the outbox retries before giving up on an event
const maxPublishAttempts = 3

// EventRecord represents how events are stored in DynamoDB with the outbox pattern
type EventRecord struct {
	PK            string                 `dynamodbav:"PK"` // EVENTS#<aggregate_id>
	SK            string                 `dynamodbav:"SK"` // EVENT#<timestamp>#<event_id>
	EventID       string                 `dynamodbav:"EventID"`
	EventType     string                 `dynamodbav:"EventType"`
	AggregateID   string                 `dynamodbav:"AggregateID"`
	AggregateType string                 `dynamodbav:"AggregateType"`
	EventData     map[string]interface{} `dynamodbav:"EventData"`
	Timestamp     string                 `dynamodbav:"Timestamp"`
	Version       int                    `dynamodbav:"Version"`

	// Outbox pattern fields
	PublishStatus   string `dynamodbav:"PublishStatus"`
	PublishAttempts int    `dynamodbav:"PublishAttempts"`
	LastPublishTry  string `dynamodbav:"LastPublishTry,omitempty"`
	PublishedAt     string `dynamodbav:"PublishedAt,omitempty"`
	ErrorMessage    string `dynamodbav:"ErrorMessage,omitempty"`

	// GSI attributes for querying
	GSI1PK string `dynamodbav:"GSI1PK"` // EVENTLOG
	GSI1SK string `dynamodbav:"GSI1SK"` // EVENT#<timestamp>
	GSI2PK string `dynamodbav:"GSI2PK"` // EVENTTYPE#<type>
	GSI2SK string `dynamodbav:"GSI2SK"` // EVENT#<timestamp>

	// TTL for automatic cleanup
	TTL int64 `dynamodbav:"TTL,omitempty"`
}

// NewDynamoDBEventStore creates a new DynamoDB event store
func NewDynamoDBEventStore(client *dynamodb.Client, tableName, gsi2IndexName string) *DynamoDBEventStore {
	return &DynamoDBEventStore{
		client:        client,
		tableName:     tableName,
		gsi2IndexName: gsi2IndexName,
	}
}

// SaveEvents persists domain events to the event store
func (es *DynamoDBEventStore) SaveEvents(ctx context.Context, domainEvents []events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	writeRequests := make([]types.WriteRequest, 0, len(domainEvents))

	for _, event := range domainEvents {
		record, err := es.eventToRecord(event)
		if err != nil {
			return fmt.Errorf("failed to convert event to record: %w", err)
		}

		item, err := attributevalue.MarshalMap(record)
		if err != nil {
			return fmt.Errorf("failed to marshal event record: %w", err)
		}

		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{
				Item: item,
			},
		})
	}

	// DynamoDB limits batch writes to 25 items
	for i := 0; i < len(writeRequests); i += 25 {
		end := i + 25
		if end > len(writeRequests) {
			end = len(writeRequests)
		}

		input := &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				es.tableName: writeRequests[i:end],
			},
		}

		result, err := es.client.BatchWriteItem(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to write events batch: %w", err)
		}

		if len(result.UnprocessedItems) > 0 {
			return fmt.Errorf("failed to write %d events", len(result.UnprocessedItems[es.tableName]))
		}
	}

	return nil
}

// GetEvents retrieves all events for an aggregate, oldest first
func (es *DynamoDBEventStore) GetEvents(ctx context.Context, aggregateID string) ([]events.DomainEvent, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENTS#%s", aggregateID)},
		},
		ScanIndexForward: aws.Bool(true),
	}

	var allEvents []events.DomainEvent

	for {
		result, err := es.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query events: %w", err)
		}

		for _, item := range result.Items {
			var record EventRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event record: %w", err)
			}

			event, err := es.recordToEvent(record)
			if err != nil {
				return nil, fmt.Errorf("failed to convert record to event: %w", err)
			}

			allEvents = append(allEvents, event)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return allEvents, nil
}

// GetEventsByType retrieves the most recent events of a specific type
func (es *DynamoDBEventStore) GetEventsByType(ctx context.Context, eventType string, limit int) ([]events.DomainEvent, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		IndexName:              aws.String(es.gsi2IndexName),
		KeyConditionExpression: aws.String("GSI2PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENTTYPE#%s", eventType)},
		},
		ScanIndexForward: aws.Bool(false),
	}

	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	result, err := es.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query events by type: %w", err)
	}

	domainEvents := make([]events.DomainEvent, 0, len(result.Items))
	for _, item := range result.Items {
		var record EventRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event record: %w", err)
		}

		event, err := es.recordToEvent(record)
		if err != nil {
			return nil, fmt.Errorf("failed to convert record to event: %w", err)
		}

		domainEvents = append(domainEvents, event)
	}

	return domainEvents, nil
}

// DeleteEvents removes all events for an aggregate
func (es *DynamoDBEventStore) DeleteEvents(ctx context.Context, aggregateID string) error {
	queryInput := &dynamodb.QueryInput{
		TableName:              aws.String(es.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENTS#%s", aggregateID)},
		},
		ProjectionExpression: aws.String("PK, SK"),
	}

	for {
		result, err := es.client.Query(ctx, queryInput)
		if err != nil {
			return fmt.Errorf("failed to query events for deletion: %w", err)
		}

		writeRequests := make([]types.WriteRequest, 0, len(result.Items))
		for _, item := range result.Items {
			writeRequests = append(writeRequests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"PK": item["PK"],
						"SK": item["SK"],
					},
				},
			})
		}

		for i := 0; i < len(writeRequests); i += 25 {
			end := i + 25
			if end > len(writeRequests) {
				end = len(writeRequests)
			}

			input := &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					es.tableName: writeRequests[i:end],
				},
			}

			if _, err := es.client.BatchWriteItem(ctx, input); err != nil {
				return fmt.Errorf("failed to delete events batch: %w", err)
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		queryInput.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return nil
}

// PrepareEventItem prepares an event for transactional write.
// The unit of work uses this to include events in aggregate transactions
func (es *DynamoDBEventStore) PrepareEventItem(event events.DomainEvent) (types.TransactWriteItem, error) {
	record, err := es.eventToRecord(event)
	if err != nil {
		return types.TransactWriteItem{}, err
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return types.TransactWriteItem{}, err
	}

	return types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(es.tableName),
			Item:      item,
		},
	}, nil
}

// eventToRecord converts a domain event to a DynamoDB record
func (es *DynamoDBEventStore) eventToRecord(event events.DomainEvent) (*EventRecord, error) {
	eventData := make(map[string]interface{})

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := json.Unmarshal(eventBytes, &eventData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event to map: %w", err)
	}

	timestamp := event.GetTimestamp()
	eventID := uuid.New().String()

	// Events older than one year are cleaned up by the table TTL
	ttl := timestamp.Add(365 * 24 * time.Hour).Unix()

	aggregateType := "unknown"
	switch {
	case strings.HasPrefix(event.GetEventType(), "prehire."):
		aggregateType = "prehire"
	case strings.HasPrefix(event.GetEventType(), "ticket."):
		aggregateType = "ticket"
	case strings.HasPrefix(event.GetEventType(), "event."):
		aggregateType = "event"
	case strings.HasPrefix(event.GetEventType(), "note."):
		aggregateType = "note"
	}

	return &EventRecord{
		PK:            fmt.Sprintf("EVENTS#%s", event.GetAggregateID()),
		SK:            fmt.Sprintf("EVENT#%s#%s", timestamp.Format(time.RFC3339Nano), eventID),
		EventID:       eventID,
		EventType:     event.GetEventType(),
		AggregateID:   event.GetAggregateID(),
		AggregateType: aggregateType,
		EventData:     eventData,
		Timestamp:     timestamp.Format(time.RFC3339),
		Version:       event.GetVersion(),

		PublishStatus:   string(PublishStatusPending),
		PublishAttempts: 0,

		GSI1PK: "EVENTLOG",
		GSI1SK: fmt.Sprintf("EVENT#%s", timestamp.Format(time.RFC3339Nano)),
		GSI2PK: fmt.Sprintf("EVENTTYPE#%s", event.GetEventType()),
		GSI2SK: fmt.Sprintf("EVENT#%s", timestamp.Format(time.RFC3339Nano)),
		TTL:    ttl,
	}, nil
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func timeField(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// recordToEvent converts a DynamoDB record back to a domain event
func (es *DynamoDBEventStore) recordToEvent(record EventRecord) (events.DomainEvent, error) {
	timestamp, err := time.Parse(time.RFC3339, record.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	baseEvent := events.BaseEvent{
		AggregateID: record.AggregateID,
		EventType:   record.EventType,
		Timestamp:   timestamp,
		Version:     record.Version,
	}

	switch record.EventType {
	case "prehire.created":
		prehireID, _ := valueobjects.NewPreHireIDFromString(stringField(record.EventData, "prehire_id"))
		return events.PreHireCreated{
			BaseEvent:  baseEvent,
			PreHireID:  prehireID,
			Name:       stringField(record.EventData, "name"),
			Email:      stringField(record.EventData, "email"),
			Department: stringField(record.EventData, "department"),
			StartDate:  timeField(record.EventData, "start_date"),
		}, nil

	case "prehire.stage_changed":
		prehireID, _ := valueobjects.NewPreHireIDFromString(stringField(record.EventData, "prehire_id"))
		return events.PreHireStageChanged{
			BaseEvent: baseEvent,
			PreHireID: prehireID,
			OldStage:  stringField(record.EventData, "old_stage"),
			NewStage:  stringField(record.EventData, "new_stage"),
		}, nil

	case "prehire.bundle_assigned":
		prehireID, _ := valueobjects.NewPreHireIDFromString(stringField(record.EventData, "prehire_id"))
		bundleID, _ := valueobjects.NewBundleIDFromString(stringField(record.EventData, "bundle_id"))
		return events.BundleAssigned{
			BaseEvent: baseEvent,
			PreHireID: prehireID,
			BundleID:  bundleID,
		}, nil

	case "prehire.withdrawn":
		prehireID, _ := valueobjects.NewPreHireIDFromString(stringField(record.EventData, "prehire_id"))
		return events.PreHireWithdrawn{
			BaseEvent: baseEvent,
			PreHireID: prehireID,
			Reason:    stringField(record.EventData, "reason"),
		}, nil

	case "ticket.opened":
		ticketID, _ := valueobjects.NewTicketIDFromString(stringField(record.EventData, "ticket_id"))
		prehireID, _ := valueobjects.NewPreHireIDFromString(stringField(record.EventData, "prehire_id"))
		return events.TicketOpened{
			BaseEvent:     baseEvent,
			TicketID:      ticketID,
			PreHireID:     prehireID,
			Summary:       stringField(record.EventData, "summary"),
			AssigneeGroup: stringField(record.EventData, "assignee_group"),
		}, nil

	case "ticket.status_changed":
		ticketID, _ := valueobjects.NewTicketIDFromString(stringField(record.EventData, "ticket_id"))
		return events.TicketStatusChanged{
			BaseEvent: baseEvent,
			TicketID:  ticketID,
			OldStatus: stringField(record.EventData, "old_status"),
			NewStatus: stringField(record.EventData, "new_status"),
		}, nil

	case "event.scheduled":
		eventID, _ := valueobjects.NewEventIDFromString(stringField(record.EventData, "event_id"))
		venueID, _ := valueobjects.NewVenueIDFromString(stringField(record.EventData, "venue_id"))
		return events.EventScheduled{
			BaseEvent: baseEvent,
			EventID:   eventID,
			VenueID:   venueID,
			Start:     timeField(record.EventData, "start"),
			End:       timeField(record.EventData, "end"),
		}, nil

	case "event.cancelled":
		eventID, _ := valueobjects.NewEventIDFromString(stringField(record.EventData, "event_id"))
		return events.EventCancelled{
			BaseEvent: baseEvent,
			EventID:   eventID,
			Reason:    stringField(record.EventData, "reason"),
		}, nil

	case "note.ingested":
		noteID, _ := valueobjects.NewNoteIDFromString(stringField(record.EventData, "note_id"))
		count := 0
		if v, ok := record.EventData["annotation_count"].(float64); ok {
			count = int(v)
		}
		return events.NoteIngested{
			BaseEvent:       baseEvent,
			NoteID:          noteID,
			EventID:         stringField(record.EventData, "event_id"),
			AnnotationCount: count,
		}, nil

	case "note.recap_decided":
		noteID, _ := valueobjects.NewNoteIDFromString(stringField(record.EventData, "note_id"))
		approved, _ := record.EventData["approved"].(bool)
		return events.RecapDecided{
			BaseEvent:  baseEvent,
			NoteID:     noteID,
			Approved:   approved,
			ReviewedBy: stringField(record.EventData, "reviewed_by"),
		}, nil

	default:
		// Unknown event types still round-trip as their base representation
		return baseEvent, nil
	}
}

// Outbox pattern methods

// GetPendingEvents retrieves events that haven't been published yet
func (es *DynamoDBEventStore) GetPendingEvents(ctx context.Context, limit int32) ([]*EventRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	input := &dynamodb.ScanInput{
		TableName:        aws.String(es.tableName),
		FilterExpression: aws.String("PublishStatus = :status AND begins_with(PK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(PublishStatusPending)},
			":prefix": &types.AttributeValueMemberS{Value: "EVENTS#"},
		},
		Limit: aws.Int32(limit),
	}

	result, err := es.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending events: %w", err)
	}

	records := make([]*EventRecord, 0, len(result.Items))
	for _, item := range result.Items {
		var record EventRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			continue // Skip malformed records
		}
		records = append(records, &record)
	}

	return records, nil
}

// MarkEventAsPublished marks an event as successfully published
func (es *DynamoDBEventStore) MarkEventAsPublished(ctx context.Context, eventPK, eventSK string) error {
	now := time.Now().Format(time.RFC3339)

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(es.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: eventPK},
			"SK": &types.AttributeValueMemberS{Value: eventSK},
		},
		UpdateExpression: aws.String("SET PublishStatus = :published, PublishedAt = :publishedAt"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":published":   &types.AttributeValueMemberS{Value: string(PublishStatusPublished)},
			":publishedAt": &types.AttributeValueMemberS{Value: now},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	}

	_, err := es.client.UpdateItem(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to mark event as published: %w", err)
	}

	return nil
}

// MarkEventAsFailed records a failed publish attempt. The event stays pending
// until the attempt limit is reached, then it is marked permanently failed
func (es *DynamoDBEventStore) MarkEventAsFailed(ctx context.Context, eventPK, eventSK string, errorMsg string, attempts int) error {
	now := time.Now().Format(time.RFC3339)

	status := string(PublishStatusFailed)
	if attempts < maxPublishAttempts {
		status = string(PublishStatusPending)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(es.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: eventPK},
			"SK": &types.AttributeValueMemberS{Value: eventSK},
		},
		UpdateExpression: aws.String("SET PublishStatus = :status, PublishAttempts = :attempts, LastPublishTry = :lastTry, ErrorMessage = :error"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":   &types.AttributeValueMemberS{Value: status},
			":attempts": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", attempts)},
			":lastTry":  &types.AttributeValueMemberS{Value: now},
			":error":    &types.AttributeValueMemberS{Value: errorMsg},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	}

	_, err := es.client.UpdateItem(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to mark event as failed: %w", err)
	}

	return nil
}
