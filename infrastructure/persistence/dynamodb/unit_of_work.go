package dynamodb

import (
	"context"
	"fmt"
	"sync"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/events"
	"onboardhq-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DynamoDBUnitOfWork buffers writes and domain events across repositories and
// commits them in a single TransactWriteItems call. A unit of work instance is
// scoped to one request and must not be shared between goroutines, the mutex
// only protects against accidental concurrent registration.
type DynamoDBUnitOfWork struct {
	client      *dynamodb.Client
	eventStore  *DynamoDBEventStore
	prehireRepo ports.PreHireRepository
	ticketRepo  ports.TicketRepository
	logger      *zap.Logger

	mu      sync.Mutex
	active  bool
	writes  []types.TransactWriteItem
	pending []events.DomainEvent
}

// NewDynamoDBUnitOfWork creates a new DynamoDB unit of work
func NewDynamoDBUnitOfWork(
	client *dynamodb.Client,
	eventStore *DynamoDBEventStore,
	prehireRepo ports.PreHireRepository,
	ticketRepo ports.TicketRepository,
	logger *zap.Logger,
) *DynamoDBUnitOfWork {
	return &DynamoDBUnitOfWork{
		client:      client,
		eventStore:  eventStore,
		prehireRepo: prehireRepo,
		ticketRepo:  ticketRepo,
		logger:      logger,
	}
}

// Begin starts a new transaction
func (uow *DynamoDBUnitOfWork) Begin(ctx context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if uow.active {
		return errors.NewConflictError("transaction already in progress")
	}

	uow.active = true
	uow.writes = uow.writes[:0]
	uow.pending = uow.pending[:0]
	return nil
}

// RegisterSave queues a write for the transaction
func (uow *DynamoDBUnitOfWork) RegisterSave(item types.TransactWriteItem) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if !uow.active {
		return errors.NewConflictError("no transaction in progress")
	}

	uow.writes = append(uow.writes, item)
	return nil
}

// RegisterEvent queues a domain event to be written with the transaction
func (uow *DynamoDBUnitOfWork) RegisterEvent(event events.DomainEvent) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if !uow.active {
		return errors.NewConflictError("no transaction in progress")
	}

	uow.pending = append(uow.pending, event)
	return nil
}

// Commit writes all registered items and events atomically
func (uow *DynamoDBUnitOfWork) Commit(ctx context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if !uow.active {
		return errors.NewConflictError("no transaction in progress")
	}

	transactItems := make([]types.TransactWriteItem, 0, len(uow.writes)+len(uow.pending))
	transactItems = append(transactItems, uow.writes...)

	for _, event := range uow.pending {
		eventItem, err := uow.eventStore.PrepareEventItem(event)
		if err != nil {
			uow.reset()
			return fmt.Errorf("failed to prepare event item: %w", err)
		}
		transactItems = append(transactItems, eventItem)
	}

	if len(transactItems) == 0 {
		uow.reset()
		return nil
	}

	if len(transactItems) > transactBatchSize {
		uow.reset()
		return errors.NewValidationError(
			fmt.Sprintf("transaction too large: %d items exceeds limit of %d", len(transactItems), transactBatchSize))
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: transactItems,
	}

	if _, err := uow.client.TransactWriteItems(ctx, input); err != nil {
		uow.reset()
		return errors.NewDatabaseError("commit transaction", err)
	}

	uow.logger.Debug("Transaction committed",
		zap.Int("writes", len(uow.writes)),
		zap.Int("events", len(uow.pending)),
	)

	uow.reset()
	return nil
}

// Rollback discards all registered items and events
func (uow *DynamoDBUnitOfWork) Rollback() error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if !uow.active {
		return nil
	}

	uow.logger.Debug("Transaction rolled back",
		zap.Int("writes", len(uow.writes)),
		zap.Int("events", len(uow.pending)),
	)

	uow.reset()
	return nil
}

func (uow *DynamoDBUnitOfWork) reset() {
	uow.active = false
	uow.writes = nil
	uow.pending = nil
}

// PreHireRepository returns the pre-hire repository for this transaction
func (uow *DynamoDBUnitOfWork) PreHireRepository() ports.PreHireRepository {
	return uow.prehireRepo
}

// TicketRepository returns the ticket repository for this transaction
func (uow *DynamoDBUnitOfWork) TicketRepository() ports.TicketRepository {
	return uow.ticketRepo
}
