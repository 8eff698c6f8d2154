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

// transactBatchSize caps how many writes go into a single transaction
const transactBatchSize = 25

// ticketItem is the DynamoDB representation of a provisioning ticket
type ticketItem struct {
	PK            string `dynamodbav:"PK"`     // TICKET#<ticket_id>
	SK            string `dynamodbav:"SK"`     // METADATA
	GSI1PK        string `dynamodbav:"GSI1PK"` // ENTITY#TICKET
	GSI1SK        string `dynamodbav:"GSI1SK"` // <status>#<updated_at>
	GSI2PK        string `dynamodbav:"GSI2PK"` // PREHIRE#<prehire_id>
	GSI2SK        string `dynamodbav:"GSI2SK"` // TICKET#<created_at>
	EntityType    string `dynamodbav:"EntityType"`
	TicketID      string `dynamodbav:"TicketID"`
	PreHireID     string `dynamodbav:"PreHireID"`
	Summary       string `dynamodbav:"Summary"`
	SKU           string `dynamodbav:"SKU"`
	AssigneeGroup string `dynamodbav:"AssigneeGroup"`
	Status        string `dynamodbav:"TicketStatus"`
	BlockedReason string `dynamodbav:"BlockedReason,omitempty"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
	Version       int    `dynamodbav:"Version"`
}

// TicketRepository implements ports.TicketRepository using DynamoDB
type TicketRepository struct {
	client        *dynamodb.Client
	tableName     string
	indexName     string
	gsi2IndexName string
	logger        *zap.Logger
}

// NewTicketRepository creates a new DynamoDB ticket repository
func NewTicketRepository(client *dynamodb.Client, tableName, indexName, gsi2IndexName string, logger *zap.Logger) *TicketRepository {
	return &TicketRepository{
		client:        client,
		tableName:     tableName,
		indexName:     indexName,
		gsi2IndexName: gsi2IndexName,
		logger:        logger,
	}
}

func ticketToItem(ticket *entities.Ticket) ticketItem {
	return ticketItem{
		PK:            fmt.Sprintf("TICKET#%s", ticket.ID().String()),
		SK:            "METADATA",
		GSI1PK:        "ENTITY#TICKET",
		GSI1SK:        fmt.Sprintf("%s#%s", ticket.Status(), ticket.UpdatedAt().Format(time.RFC3339Nano)),
		GSI2PK:        fmt.Sprintf("PREHIRE#%s", ticket.PreHireID().String()),
		GSI2SK:        fmt.Sprintf("TICKET#%s", ticket.CreatedAt().Format(time.RFC3339Nano)),
		EntityType:    "TICKET",
		TicketID:      ticket.ID().String(),
		PreHireID:     ticket.PreHireID().String(),
		Summary:       ticket.Summary(),
		SKU:           ticket.SKU(),
		AssigneeGroup: ticket.AssigneeGroup(),
		Status:        string(ticket.Status()),
		BlockedReason: ticket.BlockedReason(),
		CreatedAt:     ticket.CreatedAt().Format(time.RFC3339),
		UpdatedAt:     ticket.UpdatedAt().Format(time.RFC3339),
		Version:       ticket.Version(),
	}
}

func itemToTicket(item ticketItem) (*entities.Ticket, error) {
	id, err := valueobjects.NewTicketIDFromString(item.TicketID)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket id in item: %w", err)
	}

	prehireID, err := valueobjects.NewPreHireIDFromString(item.PreHireID)
	if err != nil {
		return nil, fmt.Errorf("invalid pre-hire id in item: %w", err)
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructTicket(
		id,
		prehireID,
		item.Summary,
		item.SKU,
		item.AssigneeGroup,
		entities.TicketStatus(item.Status),
		item.BlockedReason,
		createdAt,
		updatedAt,
		item.Version,
	)
}

// Save persists a ticket
func (r *TicketRepository) Save(ctx context.Context, ticket *entities.Ticket) error {
	av, err := attributevalue.MarshalMap(ticketToItem(ticket))
	if err != nil {
		return fmt.Errorf("failed to marshal ticket: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return errors.NewDatabaseError("save ticket", err)
	}

	r.logger.Debug("Ticket saved",
		zap.String("ticketID", ticket.ID().String()),
		zap.String("status", string(ticket.Status())),
	)

	return nil
}

// GetByID retrieves a ticket by its ID
func (r *TicketRepository) GetByID(ctx context.Context, id valueobjects.TicketID) (*entities.Ticket, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("TICKET#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, errors.NewDatabaseError("get ticket", err)
	}

	if result.Item == nil {
		return nil, errors.NewNotFoundError("ticket")
	}

	var item ticketItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticket: %w", err)
	}

	return itemToTicket(item)
}

// GetByPreHireID retrieves all tickets for a pre-hire, oldest first
func (r *TicketRepository) GetByPreHireID(ctx context.Context, prehireID valueobjects.PreHireID) ([]*entities.Ticket, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.gsi2IndexName),
		KeyConditionExpression: aws.String("GSI2PK = :pk AND begins_with(GSI2SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("PREHIRE#%s", prehireID.String())},
			":sk": &types.AttributeValueMemberS{Value: "TICKET#"},
		},
		ScanIndexForward: aws.Bool(true),
	}

	tickets := make([]*entities.Ticket, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("query tickets by pre-hire", err)
		}

		for _, raw := range result.Items {
			var item ticketItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal ticket item", zap.Error(err))
				continue
			}

			ticket, err := itemToTicket(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct ticket",
					zap.String("ticketID", item.TicketID),
					zap.Error(err))
				continue
			}
			tickets = append(tickets, ticket)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return tickets, nil
}

// ListByStatus retrieves tickets in the given status, most recently updated first
func (r *TicketRepository) ListByStatus(ctx context.Context, status entities.TicketStatus, limit int) ([]*entities.Ticket, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND begins_with(GSI1SK, :status)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: "ENTITY#TICKET"},
			":status": &types.AttributeValueMemberS{Value: string(status) + "#"},
		},
		ScanIndexForward: aws.Bool(false),
	}

	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, errors.NewDatabaseError("list tickets by status", err)
	}

	tickets := make([]*entities.Ticket, 0, len(result.Items))
	for _, raw := range result.Items {
		var item ticketItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("Failed to unmarshal ticket item", zap.Error(err))
			continue
		}

		ticket, err := itemToTicket(item)
		if err != nil {
			r.logger.Warn("Failed to reconstruct ticket",
				zap.String("ticketID", item.TicketID),
				zap.Error(err))
			continue
		}
		tickets = append(tickets, ticket)
	}

	return tickets, nil
}

// BulkSave writes multiple tickets atomically per transaction batch
func (r *TicketRepository) BulkSave(ctx context.Context, tickets []*entities.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	transactItems := make([]types.TransactWriteItem, 0, len(tickets))
	for _, ticket := range tickets {
		av, err := attributevalue.MarshalMap(ticketToItem(ticket))
		if err != nil {
			return fmt.Errorf("failed to marshal ticket: %w", err)
		}

		transactItems = append(transactItems, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(r.tableName),
				Item:      av,
			},
		})
	}

	for i := 0; i < len(transactItems); i += transactBatchSize {
		end := i + transactBatchSize
		if end > len(transactItems) {
			end = len(transactItems)
		}

		input := &dynamodb.TransactWriteItemsInput{
			TransactItems: transactItems[i:end],
		}

		if _, err := r.client.TransactWriteItems(ctx, input); err != nil {
			return errors.NewDatabaseError("bulk save tickets", err)
		}
	}

	r.logger.Debug("Tickets bulk saved", zap.Int("count", len(tickets)))
	return nil
}

// BulkSaveWithUoW registers the ticket writes and their uncommitted events
// on the unit of work instead of writing immediately
func (r *TicketRepository) BulkSaveWithUoW(ctx context.Context, tickets []*entities.Ticket, uow interface{}) error {
	dynamoUoW, ok := uow.(*DynamoDBUnitOfWork)
	if !ok {
		return r.BulkSave(ctx, tickets)
	}

	for _, ticket := range tickets {
		av, err := attributevalue.MarshalMap(ticketToItem(ticket))
		if err != nil {
			return fmt.Errorf("failed to marshal ticket: %w", err)
		}

		transactItem := types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(r.tableName),
				Item:      av,
			},
		}

		if err := dynamoUoW.RegisterSave(transactItem); err != nil {
			return fmt.Errorf("failed to register ticket save: %w", err)
		}

		for _, event := range ticket.GetUncommittedEvents() {
			if err := dynamoUoW.RegisterEvent(event); err != nil {
				return fmt.Errorf("failed to register ticket event: %w", err)
			}
		}
	}

	return nil
}

// Delete removes a ticket
func (r *TicketRepository) Delete(ctx context.Context, id valueobjects.TicketID) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("TICKET#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return errors.NewDatabaseError("delete ticket", err)
	}

	r.logger.Debug("Ticket deleted", zap.String("ticketID", id.String()))
	return nil
}
