package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// TableSpec describes the single-table layout used by the service
type TableSpec struct {
	TableName     string
	IndexName     string // GSI1 - entity listings
	GSI2IndexName string // GSI2 - parent-scoped lookups
}

// EnsureTable creates the service table with both secondary indexes if it does
// not already exist. Intended for local development against DynamoDB Local,
// production tables are provisioned by infrastructure-as-code
func EnsureTable(ctx context.Context, client *dynamodb.Client, spec TableSpec, logger *zap.Logger) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(spec.TableName),
	})
	if err == nil {
		logger.Debug("Table already exists", zap.String("table", spec.TableName))
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to describe table: %w", err)
	}

	attrType := types.ScalarAttributeTypeS
	input := &dynamodb.CreateTableInput{
		TableName:   aws.String(spec.TableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: attrType},
			{AttributeName: aws.String("SK"), AttributeType: attrType},
			{AttributeName: aws.String("GSI1PK"), AttributeType: attrType},
			{AttributeName: aws.String("GSI1SK"), AttributeType: attrType},
			{AttributeName: aws.String("GSI2PK"), AttributeType: attrType},
			{AttributeName: aws.String("GSI2SK"), AttributeType: attrType},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(spec.IndexName),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("GSI1PK"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("GSI1SK"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
			{
				IndexName: aws.String(spec.GSI2IndexName),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("GSI2PK"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("GSI2SK"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	}

	if _, err := client.CreateTable(ctx, input); err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("failed to create table: %w", err)
	}

	logger.Info("Created table", zap.String("table", spec.TableName))

	return waitForTable(ctx, client, spec.TableName)
}

func waitForTable(ctx context.Context, client *dynamodb.Client, tableName string) error {
	deadline := time.Now().Add(30 * time.Second)

	for time.Now().Before(deadline) {
		out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(tableName),
		})
		if err == nil && out.Table.TableStatus == types.TableStatusActive {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}

	return fmt.Errorf("table %s did not become active in time", tableName)
}

// EnableTTL turns on the TTL attribute used by lock records and the event log
func EnableTTL(ctx context.Context, client *dynamodb.Client, tableName string) error {
	_, err := client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String("TTL"),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to enable TTL: %w", err)
	}
	return nil
}
