package dynamodb

import (
	"context"
	"fmt"
	"time"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/pkg/errors"
	"onboardhq-backend/pkg/observability"

	"go.uber.org/zap"
)

// outboxLockKey guards the drain loop so only one process publishes at a time
const outboxLockKey = "outbox-drain"

// OutboxProcessor publishes events that were committed to the store but not
// yet delivered to the bus. Together with the transactional event writes this
// gives at-least-once delivery without dual-write races
type OutboxProcessor struct {
	eventStore     *DynamoDBEventStore
	eventPublisher ports.EventPublisher
	lock           ports.DistributedLock
	metrics        *observability.Metrics
	logger         *zap.Logger

	batchSize          int32
	processingInterval time.Duration

	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewOutboxProcessor creates a new outbox processor
func NewOutboxProcessor(
	eventStore *DynamoDBEventStore,
	eventPublisher ports.EventPublisher,
	lock ports.DistributedLock,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *OutboxProcessor {
	return &OutboxProcessor{
		eventStore:         eventStore,
		eventPublisher:     eventPublisher,
		lock:               lock,
		metrics:            metrics,
		logger:             logger,
		batchSize:          50,
		processingInterval: 5 * time.Second,
		stopChan:           make(chan struct{}),
		stoppedChan:        make(chan struct{}),
	}
}

// Start begins background processing of outbox events
func (op *OutboxProcessor) Start(ctx context.Context) {
	op.logger.Info("Starting outbox processor",
		zap.Int32("batchSize", op.batchSize),
		zap.Duration("interval", op.processingInterval),
	)

	go op.processLoop(ctx)
}

// Stop gracefully stops the outbox processor
func (op *OutboxProcessor) Stop() {
	op.logger.Info("Stopping outbox processor")
	close(op.stopChan)
	<-op.stoppedChan
	op.logger.Info("Outbox processor stopped")
}

func (op *OutboxProcessor) processLoop(ctx context.Context) {
	defer close(op.stoppedChan)

	ticker := time.NewTicker(op.processingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			op.logger.Info("Context cancelled, stopping outbox processor")
			return
		case <-op.stopChan:
			return
		case <-ticker.C:
			if err := op.processBatch(ctx); err != nil {
				op.logger.Error("Error processing outbox batch", zap.Error(err))
			}
		}
	}
}

// processBatch drains one batch of pending events under the outbox lock
func (op *OutboxProcessor) processBatch(ctx context.Context) error {
	if op.lock != nil {
		release, err := op.lock.AcquireLock(ctx, outboxLockKey, int(op.processingInterval.Seconds())*2)
		if err != nil {
			if errors.IsConflict(err) {
				// Another process holds the drain, skip this tick
				return nil
			}
			return err
		}
		defer func() {
			if err := release(); err != nil {
				op.logger.Warn("Failed to release outbox lock", zap.Error(err))
			}
		}()
	}

	pendingEvents, err := op.eventStore.GetPendingEvents(ctx, op.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	if len(pendingEvents) == 0 {
		return nil
	}

	op.logger.Debug("Processing outbox batch",
		zap.Int("eventCount", len(pendingEvents)),
	)

	successCount := 0
	failureCount := 0

	for _, eventRecord := range pendingEvents {
		if err := op.processEvent(ctx, eventRecord); err != nil {
			op.logger.Error("Failed to process event",
				zap.String("eventID", eventRecord.EventID),
				zap.String("eventType", eventRecord.EventType),
				zap.Error(err),
			)
			failureCount++
		} else {
			successCount++
		}
	}

	op.metrics.Count(ctx, "OutboxEventsPublished", float64(successCount), nil)
	if failureCount > 0 {
		op.metrics.Count(ctx, "OutboxEventsFailed", float64(failureCount), nil)
	}

	op.logger.Debug("Completed outbox batch",
		zap.Int("successCount", successCount),
		zap.Int("failureCount", failureCount),
	)

	return nil
}

func (op *OutboxProcessor) processEvent(ctx context.Context, eventRecord *EventRecord) error {
	domainEvent, err := op.eventStore.recordToEvent(*eventRecord)
	if err != nil {
		// Malformed events can never succeed, burn an attempt so they age out
		return op.markEventFailed(ctx, eventRecord, fmt.Sprintf("failed to convert to domain event: %v", err))
	}

	if err := op.eventPublisher.Publish(ctx, domainEvent); err != nil {
		return op.markEventFailed(ctx, eventRecord, fmt.Sprintf("publish failed: %v", err))
	}

	return op.markEventPublished(ctx, eventRecord)
}

func (op *OutboxProcessor) markEventPublished(ctx context.Context, eventRecord *EventRecord) error {
	if err := op.eventStore.MarkEventAsPublished(ctx, eventRecord.PK, eventRecord.SK); err != nil {
		op.logger.Error("Failed to mark event as published",
			zap.String("eventID", eventRecord.EventID),
			zap.Error(err),
		)
		return err
	}

	op.logger.Debug("Event published",
		zap.String("eventID", eventRecord.EventID),
		zap.String("eventType", eventRecord.EventType),
	)

	return nil
}

func (op *OutboxProcessor) markEventFailed(ctx context.Context, eventRecord *EventRecord, errorMsg string) error {
	newAttempts := eventRecord.PublishAttempts + 1

	if err := op.eventStore.MarkEventAsFailed(ctx, eventRecord.PK, eventRecord.SK, errorMsg, newAttempts); err != nil {
		op.logger.Error("Failed to mark event as failed",
			zap.String("eventID", eventRecord.EventID),
			zap.Error(err),
		)
		return err
	}

	if newAttempts >= maxPublishAttempts {
		op.logger.Warn("Event permanently failed after max retries",
			zap.String("eventID", eventRecord.EventID),
			zap.String("eventType", eventRecord.EventType),
			zap.Int("attempts", newAttempts),
			zap.String("error", errorMsg),
		)
	} else {
		op.logger.Debug("Event marked for retry",
			zap.String("eventID", eventRecord.EventID),
			zap.String("eventType", eventRecord.EventType),
			zap.Int("attempts", newAttempts),
		)
	}

	return fmt.Errorf("event processing failed: %s", errorMsg)
}

// GetStats reports whether the outbox has a backlog
func (op *OutboxProcessor) GetStats(ctx context.Context) (map[string]interface{}, error) {
	pendingEvents, err := op.eventStore.GetPendingEvents(ctx, 1)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"hasPendingEvents":   len(pendingEvents) > 0,
		"batchSize":          op.batchSize,
		"processingInterval": op.processingInterval.String(),
		"maxRetries":         maxPublishAttempts,
	}, nil
}
