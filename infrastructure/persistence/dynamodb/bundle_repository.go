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

// bundleItemRecord stores a single equipment or software line inside a bundle
type bundleItemRecord struct {
	SKU           string `dynamodbav:"SKU"`
	Name          string `dynamodbav:"Name"`
	Kind          string `dynamodbav:"Kind"`
	AssigneeGroup string `dynamodbav:"AssigneeGroup"`
	Quantity      int    `dynamodbav:"Quantity"`
}

// bundleItem is the DynamoDB representation of a bundle
type bundleItem struct {
	PK          string             `dynamodbav:"PK"`     // BUNDLE#<bundle_id>
	SK          string             `dynamodbav:"SK"`     // METADATA
	GSI1PK      string             `dynamodbav:"GSI1PK"` // ENTITY#BUNDLE
	GSI1SK      string             `dynamodbav:"GSI1SK"` // <department>#<name>
	EntityType  string             `dynamodbav:"EntityType"`
	BundleID    string             `dynamodbav:"BundleID"`
	Name        string             `dynamodbav:"BundleName"`
	Department  string             `dynamodbav:"Department"`
	Description string             `dynamodbav:"Description,omitempty"`
	Items       []bundleItemRecord `dynamodbav:"Items"`
	IsActive    bool               `dynamodbav:"IsActive"`
	CreatedAt   string             `dynamodbav:"CreatedAt"`
	UpdatedAt   string             `dynamodbav:"UpdatedAt"`
	Version     int                `dynamodbav:"Version"`
}

// BundleRepository implements ports.BundleRepository using DynamoDB
type BundleRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewBundleRepository creates a new DynamoDB bundle repository
func NewBundleRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *BundleRepository {
	return &BundleRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

func bundleToItem(bundle *entities.Bundle) bundleItem {
	records := make([]bundleItemRecord, 0, len(bundle.Items()))
	for _, it := range bundle.Items() {
		records = append(records, bundleItemRecord{
			SKU:           it.SKU,
			Name:          it.Name,
			Kind:          string(it.Kind),
			AssigneeGroup: it.AssigneeGroup,
			Quantity:      it.Quantity,
		})
	}

	return bundleItem{
		PK:          fmt.Sprintf("BUNDLE#%s", bundle.ID().String()),
		SK:          "METADATA",
		GSI1PK:      "ENTITY#BUNDLE",
		GSI1SK:      fmt.Sprintf("%s#%s", bundle.Department(), bundle.Name()),
		EntityType:  "BUNDLE",
		BundleID:    bundle.ID().String(),
		Name:        bundle.Name(),
		Department:  bundle.Department(),
		Description: bundle.Description(),
		Items:       records,
		IsActive:    bundle.IsActive(),
		CreatedAt:   bundle.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   bundle.UpdatedAt().Format(time.RFC3339),
		Version:     bundle.Version(),
	}
}

func itemToBundle(item bundleItem) (*entities.Bundle, error) {
	id, err := valueobjects.NewBundleIDFromString(item.BundleID)
	if err != nil {
		return nil, fmt.Errorf("invalid bundle id in item: %w", err)
	}

	items := make([]entities.BundleItem, 0, len(item.Items))
	for _, rec := range item.Items {
		items = append(items, entities.BundleItem{
			SKU:           rec.SKU,
			Name:          rec.Name,
			Kind:          entities.ItemKind(rec.Kind),
			AssigneeGroup: rec.AssigneeGroup,
			Quantity:      rec.Quantity,
		})
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructBundle(
		id,
		item.Name,
		item.Department,
		item.Description,
		items,
		item.IsActive,
		createdAt,
		updatedAt,
		item.Version,
	)
}

// Save persists a bundle
func (r *BundleRepository) Save(ctx context.Context, bundle *entities.Bundle) error {
	av, err := attributevalue.MarshalMap(bundleToItem(bundle))
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return errors.NewDatabaseError("save bundle", err)
	}

	r.logger.Debug("Bundle saved",
		zap.String("bundleID", bundle.ID().String()),
		zap.Int("items", len(bundle.Items())),
	)

	return nil
}

// GetByID retrieves a bundle by its ID
func (r *BundleRepository) GetByID(ctx context.Context, id valueobjects.BundleID) (*entities.Bundle, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("BUNDLE#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, errors.NewDatabaseError("get bundle", err)
	}

	if result.Item == nil {
		return nil, errors.NewNotFoundError("bundle")
	}

	var item bundleItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bundle: %w", err)
	}

	return itemToBundle(item)
}

// List retrieves bundles, optionally filtered by department and active state
func (r *BundleRepository) List(ctx context.Context, department string, activeOnly bool) ([]*entities.Bundle, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "ENTITY#BUNDLE"},
		},
	}

	if department != "" {
		input.KeyConditionExpression = aws.String("GSI1PK = :pk AND begins_with(GSI1SK, :dept)")
		input.ExpressionAttributeValues[":dept"] = &types.AttributeValueMemberS{
			Value: department + "#",
		}
	}

	if activeOnly {
		input.FilterExpression = aws.String("IsActive = :active")
		input.ExpressionAttributeValues[":active"] = &types.AttributeValueMemberBOOL{Value: true}
	}

	bundles := make([]*entities.Bundle, 0)

	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewDatabaseError("list bundles", err)
		}

		for _, raw := range result.Items {
			var item bundleItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal bundle item", zap.Error(err))
				continue
			}

			bundle, err := itemToBundle(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct bundle",
					zap.String("bundleID", item.BundleID),
					zap.Error(err))
				continue
			}
			bundles = append(bundles, bundle)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return bundles, nil
}

// Delete removes a bundle
func (r *BundleRepository) Delete(ctx context.Context, id valueobjects.BundleID) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("BUNDLE#%s", id.String())},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return errors.NewDatabaseError("delete bundle", err)
	}

	r.logger.Debug("Bundle deleted", zap.String("bundleID", id.String()))
	return nil
}
