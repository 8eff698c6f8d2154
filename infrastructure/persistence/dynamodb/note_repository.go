package dynamodb

import (
	"context"
	"fmt"
	"time"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/pkg/errors"
	"onboardhq-backend/pkg/highlight"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// annotationRecord stores one positionless annotation on a note
type annotationRecord struct {
	Value    string `dynamodbav:"Value"`
	Category string `dynamodbav:"Category"`
}

// noteItem is the DynamoDB representation of a meeting note
type noteItem struct {
	PK          string             `dynamodbav:"PK"`               // NOTE#<note_id>
	SK          string             `dynamodbav:"SK"`               // METADATA
	GSI1PK      string             `dynamodbav:"GSI1PK"`           // ENTITY#NOTE
	GSI1SK      string             `dynamodbav:"GSI1SK"`           // <created_at>
	GSI2PK      string             `dynamodbav:"GSI2PK,omitempty"` // EVENT#<event_id>
	GSI2SK      string             `dynamodbav:"GSI2SK,omitempty"` // NOTE#<created_at>
	EntityType  string             `dynamodbav:"EntityType"`
	NoteID      string             `dynamodbav:"NoteID"`
	EventID     string             `dynamodbav:"EventID,omitempty"`
	Title       string             `dynamodbav:"Title"`
	Text        string             `dynamodbav:"NoteText"`
	Annotations []annotationRecord `dynamodbav:"Annotations,omitempty"`
	RecapStatus string             `dynamodbav:"RecapStatus"`
	ReviewedBy  string             `dynamodbav:"ReviewedBy,omitempty"`
	CreatedAt   string             `dynamodbav:"CreatedAt"`
	UpdatedAt   string             `dynamodbav:"UpdatedAt"`
	Version     int                `dynamodbav:"Version"`
}

// NoteRepository implements ports.NoteRepository using DynamoDB
type NoteRepository struct {
	client        *dynamodb.Client
	tableName     string
	indexName     string
	gsi2IndexName string
	logger        *zap.Logger
}

// NewNoteRepository creates a new DynamoDB note repository
func NewNoteRepository(client *dynamodb.Client, tableName, indexName, gsi2IndexName string, logger *zap.Logger) *NoteRepository {
	return &NoteRepository{
		client:        client,
		tableName:     tableName,
		indexName:     indexName,
		gsi2IndexName: gsi2IndexName,
		logger:        logger,
	}
}

func noteToItem(note *entities.Note) noteItem {
	records := make([]annotationRecord, 0, len(note.Annotations()))
	for _, ann := range note.Annotations() {
		records = append(records, annotationRecord{
			Value:    ann.Value,
			Category: string(ann.Category),
		})
	}

	createdAt := note.CreatedAt().Format(time.RFC3339Nano)

	item := noteItem{
		PK:          fmt.Sprintf("NOTE#%s", note.ID().String()),
		SK:          "METADATA",
		GSI1PK:      "ENTITY#NOTE",
		GSI1SK:      createdAt,
		EntityType:  "NOTE",
		NoteID:      note.ID().String(),
		Title:       note.Title(),
		Text:        note.Text(),
		Annotations: records,
		RecapStatus: string(note.RecapStatus()),
		ReviewedBy:  note.ReviewedBy(),
		CreatedAt:   note.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   note.UpdatedAt().Format(time.RFC3339),
		Version:     note.Version(),
	}

	if !note.EventID().IsZero() {
		item.EventID = note.EventID().String()
		item.GSI2PK = fmt.Sprintf("EVENT#%s", note.EventID().String())
		item.GSI2SK = fmt.Sprintf("NOTE#%s", createdAt)
	}

	return item
}

func itemToNote(item noteItem) (*entities.Note, error) {
	id, err := valueobjects.NewNoteIDFromString(item.NoteID)
	if err != nil {
		return nil, fmt.Errorf("invalid note id in item: %w", err)
	}

	var eventID valueobjects.EventID
	if item.EventID != "" {
		eventID, err = valueobjects.NewEventIDFromString(item.EventID)
		if err != nil {
			return nil, fmt.Errorf("invalid event id in item: %w", err)
		}
	}

	annotations := make([]highlight.Annotation, 0, len(item.Annotations))
	for _, rec := range item.Annotations {
		annotations = append(annotations, highlight.Annotation{
			Value:    rec.Value,
			Category: highlight.Category(rec.Category),
		})
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructNote(
		id,
		eventID,
		item.Title,
		item.Text,
		annotations,
		entities.RecapStatus(item.RecapStatus),
		item.ReviewedBy,
		createdAt,
		updatedAt,
		item.Version,
	)
}

// Save persists a note
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) error {
	av, err := attributevalue.MarshalMap(noteToItem(note))
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return errors.NewDatabaseError("save note", err)
	}

	r.logger.Debug("Note saved",
		zap.String("noteID", note.ID().String()),
		zap.Int("annotations", len(note.Annotations())),
	)

	return nil
}

// GetByID retrieves a note by its ID
func (r *NoteRepository) GetByID(ctx context.Context, id valueobjects.NoteID) (*entities.Note, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("NOTE#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, errors.NewDatabaseError("get note", err)
	}

	if result.Item == nil {
		return nil, errors.NewNotFoundError("note")
	}

	var item noteItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal note: %w", err)
	}

	return itemToNote(item)
}

// GetByEventID retrieves all notes attached to an event, oldest first
func (r *NoteRepository) GetByEventID(ctx context.Context, eventID valueobjects.EventID) ([]*entities.Note, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.gsi2IndexName),
		KeyConditionExpression: aws.String("GSI2PK = :pk AND begins_with(GSI2SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENT#%s", eventID.String())},
			":sk": &types.AttributeValueMemberS{Value: "NOTE#"},
		},
		ScanIndexForward: aws.Bool(true),
	}

	notes := make([]*entities.Note, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("query notes by event", err)
		}

		for _, raw := range result.Items {
			var item noteItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal note item", zap.Error(err))
				continue
			}

			note, err := itemToNote(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct note",
					zap.String("noteID", item.NoteID),
					zap.Error(err))
				continue
			}
			notes = append(notes, note)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return notes, nil
}

// List retrieves notes matching the given criteria, newest first by default
func (r *NoteRepository) List(ctx context.Context, criteria ports.ListCriteria) ([]*entities.Note, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "ENTITY#NOTE"},
		},
		ScanIndexForward: aws.Bool(!criteria.OrderDesc),
	}

	if criteria.Status != "" {
		input.FilterExpression = aws.String("RecapStatus = :status")
		input.ExpressionAttributeValues[":status"] = &types.AttributeValueMemberS{Value: criteria.Status}
	}

	notes := make([]*entities.Note, 0)
	skip := criteria.Offset

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("list notes", err)
		}

		for _, raw := range result.Items {
			if skip > 0 {
				skip--
				continue
			}

			var item noteItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal note item", zap.Error(err))
				continue
			}

			note, err := itemToNote(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct note",
					zap.String("noteID", item.NoteID),
					zap.Error(err))
				continue
			}

			notes = append(notes, note)
			if criteria.Limit > 0 && len(notes) >= criteria.Limit {
				return notes, nil
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return notes, nil
}

// Delete removes a note
func (r *NoteRepository) Delete(ctx context.Context, id valueobjects.NoteID) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("NOTE#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return errors.NewDatabaseError("delete note", err)
	}

	r.logger.Debug("Note deleted", zap.String("noteID", id.String()))
	return nil
}
