package dynamodb

import (
	"context"
	"fmt"
	"time"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/pkg/errors"
	"onboardhq-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// prehireItem is the DynamoDB representation of a pre-hire record
type prehireItem struct {
	PK         string   `dynamodbav:"PK"`     // PREHIRE#<prehire_id>
	SK         string   `dynamodbav:"SK"`     // METADATA
	GSI1PK     string   `dynamodbav:"GSI1PK"` // ENTITY#PREHIRE
	GSI1SK     string   `dynamodbav:"GSI1SK"` // <department>#<created_at>
	EntityType string   `dynamodbav:"EntityType"`
	PreHireID  string   `dynamodbav:"PreHireID"`
	Name       string   `dynamodbav:"Name"`
	Email      string   `dynamodbav:"Email"`
	Department string   `dynamodbav:"Department"`
	Role       string   `dynamodbav:"Role"`
	Manager    string   `dynamodbav:"Manager"`
	StartDate  string   `dynamodbav:"StartDate"`
	Stage      string   `dynamodbav:"Stage"`
	BundleID   string   `dynamodbav:"BundleID,omitempty"`
	TicketIDs  []string `dynamodbav:"TicketIDs,omitempty"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
	UpdatedAt  string   `dynamodbav:"UpdatedAt"`
	Version    int      `dynamodbav:"Version"`
}

// PreHireRepository implements ports.PreHireRepository using DynamoDB
type PreHireRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewPreHireRepository creates a new DynamoDB pre-hire repository
func NewPreHireRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *PreHireRepository {
	return &PreHireRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

func prehireToItem(prehire *entities.PreHire) prehireItem {
	ticketIDs := make([]string, 0, len(prehire.TicketIDs()))
	for _, id := range prehire.TicketIDs() {
		ticketIDs = append(ticketIDs, id.String())
	}

	bundleID := ""
	if !prehire.BundleID().IsZero() {
		bundleID = prehire.BundleID().String()
	}

	return prehireItem{
		PK:         fmt.Sprintf("PREHIRE#%s", prehire.ID().String()),
		SK:         "METADATA",
		GSI1PK:     "ENTITY#PREHIRE",
		GSI1SK:     fmt.Sprintf("%s#%s", prehire.Department(), prehire.CreatedAt().Format(time.RFC3339Nano)),
		EntityType: "PREHIRE",
		PreHireID:  prehire.ID().String(),
		Name:       prehire.Name(),
		Email:      prehire.Email().String(),
		Department: prehire.Department(),
		Role:       prehire.Role(),
		Manager:    prehire.Manager(),
		StartDate:  prehire.StartDate().Format("2006-01-02"),
		Stage:      string(prehire.Stage()),
		BundleID:   bundleID,
		TicketIDs:  ticketIDs,
		CreatedAt:  prehire.CreatedAt().Format(time.RFC3339),
		UpdatedAt:  prehire.UpdatedAt().Format(time.RFC3339),
		Version:    prehire.Version(),
	}
}

func itemToPreHire(item prehireItem) (*entities.PreHire, error) {
	id, err := valueobjects.NewPreHireIDFromString(item.PreHireID)
	if err != nil {
		return nil, fmt.Errorf("invalid pre-hire id in item: %w", err)
	}

	email, err := valueobjects.NewEmail(item.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email in item: %w", err)
	}

	startDate, err := utils.ParseDate(item.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date in item: %w", err)
	}

	var bundleID valueobjects.BundleID
	if item.BundleID != "" {
		bundleID, err = valueobjects.NewBundleIDFromString(item.BundleID)
		if err != nil {
			return nil, fmt.Errorf("invalid bundle id in item: %w", err)
		}
	}

	ticketIDs := make([]valueobjects.TicketID, 0, len(item.TicketIDs))
	for _, raw := range item.TicketIDs {
		ticketID, err := valueobjects.NewTicketIDFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ticket id in item: %w", err)
		}
		ticketIDs = append(ticketIDs, ticketID)
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructPreHire(
		id,
		item.Name,
		email,
		item.Department,
		item.Role,
		item.Manager,
		startDate,
		entities.Stage(item.Stage),
		bundleID,
		ticketIDs,
		createdAt,
		updatedAt,
		item.Version,
	)
}

// Save persists a pre-hire, overwriting any existing record
func (r *PreHireRepository) Save(ctx context.Context, prehire *entities.PreHire) error {
	av, err := attributevalue.MarshalMap(prehireToItem(prehire))
	if err != nil {
		return fmt.Errorf("failed to marshal pre-hire: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return errors.NewDatabaseError("save pre-hire", err)
	}

	r.logger.Debug("Pre-hire saved",
		zap.String("prehireID", prehire.ID().String()),
		zap.String("stage", string(prehire.Stage())),
	)

	return nil
}

// SaveWithUoW registers the pre-hire write and its uncommitted events on the
// unit of work instead of writing immediately
func (r *PreHireRepository) SaveWithUoW(ctx context.Context, prehire *entities.PreHire, uow interface{}) error {
	dynamoUoW, ok := uow.(*DynamoDBUnitOfWork)
	if !ok {
		return r.Save(ctx, prehire)
	}

	av, err := attributevalue.MarshalMap(prehireToItem(prehire))
	if err != nil {
		return fmt.Errorf("failed to marshal pre-hire: %w", err)
	}

	transactItem := types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(r.tableName),
			Item:      av,
		},
	}

	if err := dynamoUoW.RegisterSave(transactItem); err != nil {
		return fmt.Errorf("failed to register pre-hire save: %w", err)
	}

	for _, event := range prehire.GetUncommittedEvents() {
		if err := dynamoUoW.RegisterEvent(event); err != nil {
			return fmt.Errorf("failed to register pre-hire event: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a pre-hire by its ID
func (r *PreHireRepository) GetByID(ctx context.Context, id valueobjects.PreHireID) (*entities.PreHire, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PREHIRE#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, errors.NewDatabaseError("get pre-hire", err)
	}

	if result.Item == nil {
		return nil, errors.NewNotFoundError("pre-hire")
	}

	var item prehireItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pre-hire: %w", err)
	}

	return itemToPreHire(item)
}

// GetByEmail retrieves a pre-hire by email address
func (r *PreHireRepository) GetByEmail(ctx context.Context, email valueobjects.Email) (*entities.PreHire, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		FilterExpression:       aws.String("Email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":    &types.AttributeValueMemberS{Value: "ENTITY#PREHIRE"},
			":email": &types.AttributeValueMemberS{Value: email.String()},
		},
	}

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("query pre-hire by email", err)
		}

		if len(result.Items) > 0 {
			var item prehireItem
			if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal pre-hire: %w", err)
			}
			return itemToPreHire(item)
		}

		if result.LastEvaluatedKey == nil {
			return nil, errors.NewNotFoundError("pre-hire")
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// List retrieves pre-hires matching the given criteria. Department filtering
// uses the GSI1 sort key prefix, stage filtering happens server-side
func (r *PreHireRepository) List(ctx context.Context, criteria ports.ListCriteria) ([]*entities.PreHire, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "ENTITY#PREHIRE"},
		},
		ScanIndexForward: aws.Bool(!criteria.OrderDesc),
	}

	if criteria.Department != "" {
		input.KeyConditionExpression = aws.String("GSI1PK = :pk AND begins_with(GSI1SK, :dept)")
		input.ExpressionAttributeValues[":dept"] = &types.AttributeValueMemberS{
			Value: criteria.Department + "#",
		}
	}

	if criteria.Stage != "" {
		input.FilterExpression = aws.String("#stage = :stage")
		input.ExpressionAttributeNames = map[string]string{"#stage": "Stage"}
		input.ExpressionAttributeValues[":stage"] = &types.AttributeValueMemberS{Value: criteria.Stage}
	}

	prehires := make([]*entities.PreHire, 0)
	skip := criteria.Offset

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("list pre-hires", err)
		}

		for _, raw := range result.Items {
			if skip > 0 {
				skip--
				continue
			}

			var item prehireItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal pre-hire item", zap.Error(err))
				continue
			}

			prehire, err := itemToPreHire(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct pre-hire",
					zap.String("prehireID", item.PreHireID),
					zap.Error(err))
				continue
			}

			prehires = append(prehires, prehire)
			if criteria.Limit > 0 && len(prehires) >= criteria.Limit {
				return prehires, nil
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return prehires, nil
}

// Delete removes a pre-hire
func (r *PreHireRepository) Delete(ctx context.Context, id valueobjects.PreHireID) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PREHIRE#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return errors.NewDatabaseError("delete pre-hire", err)
	}

	r.logger.Debug("Pre-hire deleted", zap.String("prehireID", id.String()))
	return nil
}
