package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "onboardhq-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DistributedLock provides distributed locking using DynamoDB conditional writes.
// Each process gets a unique owner ID so a lock can only be released by the
// process that acquired it
type DistributedLock struct {
	client    *dynamodb.Client
	tableName string
	owner     string
	logger    *zap.Logger
}

// lockRecord represents a lock record in DynamoDB
type lockRecord struct {
	PK         string `dynamodbav:"PK"` // LOCK#<lock_key>
	SK         string `dynamodbav:"SK"` // LOCK
	LockID     string `dynamodbav:"LockID"`
	Owner      string `dynamodbav:"Owner"`
	AcquiredAt string `dynamodbav:"AcquiredAt"`
	ExpiresAt  string `dynamodbav:"ExpiresAt"`
	TTL        int64  `dynamodbav:"TTL"`
}

// NewDistributedLock creates a new distributed lock instance
func NewDistributedLock(client *dynamodb.Client, tableName string, logger *zap.Logger) *DistributedLock {
	return &DistributedLock{
		client:    client,
		tableName: tableName,
		owner:     uuid.New().String(),
		logger:    logger,
	}
}

// AcquireLock attempts to take the named lock. Expired locks left behind by
// crashed processes are taken over. The returned release func deletes the
// lock record and is safe to call even after the lock has expired
func (dl *DistributedLock) AcquireLock(ctx context.Context, lockKey string, ttlSeconds int) (func() error, error) {
	if ttlSeconds <= 0 {
		ttlSeconds = 30
	}

	lockID := fmt.Sprintf("%s_%d", dl.owner, time.Now().UnixNano())
	now := time.Now()
	expiresAt := now.Add(time.Duration(ttlSeconds) * time.Second)

	item := map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: fmt.Sprintf("LOCK#%s", lockKey)},
		"SK":         &types.AttributeValueMemberS{Value: "LOCK"},
		"LockID":     &types.AttributeValueMemberS{Value: lockID},
		"Owner":      &types.AttributeValueMemberS{Value: dl.owner},
		"AcquiredAt": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		"ExpiresAt":  &types.AttributeValueMemberS{Value: expiresAt.Format(time.RFC3339)},
		"TTL":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt.Unix())},
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(dl.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) OR ExpiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	}

	if _, err := dl.client.PutItem(ctx, input); err != nil {
		var conditionalCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckFailed) {
			dl.logger.Debug("Failed to acquire lock - already held",
				zap.String("lockKey", lockKey),
			)
			return nil, apperrors.NewConflictError(fmt.Sprintf("lock already held: %s", lockKey))
		}
		return nil, apperrors.NewDatabaseError("acquire lock", err)
	}

	dl.logger.Debug("Lock acquired",
		zap.String("lockKey", lockKey),
		zap.String("lockID", lockID),
		zap.Int("ttlSeconds", ttlSeconds),
	)

	release := func() error {
		return dl.releaseLock(context.Background(), lockKey, lockID)
	}

	return release, nil
}

// TryAcquireLock retries lock acquisition with backoff until the timeout elapses
func (dl *DistributedLock) TryAcquireLock(ctx context.Context, lockKey string, ttlSeconds int, timeout time.Duration) (func() error, error) {
	deadline := time.Now().Add(timeout)
	retryInterval := 100 * time.Millisecond

	for time.Now().Before(deadline) {
		release, err := dl.AcquireLock(ctx, lockKey, ttlSeconds)
		if err == nil {
			return release, nil
		}

		if !apperrors.IsConflict(err) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
			if retryInterval < time.Second {
				retryInterval = time.Duration(float64(retryInterval) * 1.5)
			}
		}
	}

	return nil, apperrors.NewConflictError(fmt.Sprintf("timeout acquiring lock: %s", lockKey))
}

func (dl *DistributedLock) releaseLock(ctx context.Context, lockKey, lockID string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(dl.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("LOCK#%s", lockKey)},
			"SK": &types.AttributeValueMemberS{Value: "LOCK"},
		},
		ConditionExpression: aws.String("LockID = :lockId AND #owner = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#owner": "Owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lockId": &types.AttributeValueMemberS{Value: lockID},
			":owner":  &types.AttributeValueMemberS{Value: dl.owner},
		},
	}

	if _, err := dl.client.DeleteItem(ctx, input); err != nil {
		var conditionalCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckFailed) {
			// Already expired and taken over, nothing left to release
			dl.logger.Warn("Lock already released or owned by another process",
				zap.String("lockKey", lockKey),
				zap.String("lockID", lockID),
			)
			return nil
		}
		return apperrors.NewDatabaseError("release lock", err)
	}

	dl.logger.Debug("Lock released",
		zap.String("lockKey", lockKey),
		zap.String("lockID", lockID),
	)

	return nil
}
