package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"onboardhq-backend/application/commands"
	"onboardhq-backend/application/ports"
	"onboardhq-backend/application/services"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
)

// AssignBundleOrchestrator orchestrates bundle assignment: it attaches the
// bundle to the pre-hire, moves the pipeline into provisioning and expands
// the bundle into tickets, all under a per-pre-hire lock so concurrent
// assignments cannot double-open tickets.
type AssignBundleOrchestrator struct {
	uow              ports.UnitOfWork
	prehireRepo      ports.PreHireRepository
	bundleRepo       ports.BundleRepository
	ticketRepo       ports.TicketRepository
	provisionService *services.ProvisionService
	eventPublisher   ports.EventPublisher
	distributedLock  ports.DistributedLock
	logger           *zap.Logger
}

// NewAssignBundleOrchestrator creates a new orchestrator instance
func NewAssignBundleOrchestrator(
	uow ports.UnitOfWork,
	prehireRepo ports.PreHireRepository,
	bundleRepo ports.BundleRepository,
	ticketRepo ports.TicketRepository,
	provisionService *services.ProvisionService,
	eventPublisher ports.EventPublisher,
	distributedLock ports.DistributedLock,
	logger *zap.Logger,
) *AssignBundleOrchestrator {
	return &AssignBundleOrchestrator{
		uow:              uow,
		prehireRepo:      prehireRepo,
		bundleRepo:       bundleRepo,
		ticketRepo:       ticketRepo,
		provisionService: provisionService,
		eventPublisher:   eventPublisher,
		distributedLock:  distributedLock,
		logger:           logger,
	}
}

// Handle orchestrates the bundle assignment process
func (o *AssignBundleOrchestrator) Handle(ctx context.Context, cmd commands.AssignBundleCommand) (*entities.PreHire, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	prehireID, err := valueobjects.NewPreHireIDFromString(cmd.PreHireID)
	if err != nil {
		return nil, fmt.Errorf("invalid pre-hire ID: %w", err)
	}
	bundleID, err := valueobjects.NewBundleIDFromString(cmd.BundleID)
	if err != nil {
		return nil, fmt.Errorf("invalid bundle ID: %w", err)
	}

	if o.distributedLock != nil {
		lockKey := fmt.Sprintf("assign-bundle:%s", prehireID.String())
		release, err := o.distributedLock.AcquireLock(ctx, lockKey, 30)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		defer func() {
			if err := release(); err != nil {
				o.logger.Warn("failed to release lock", zap.String("key", lockKey), zap.Error(err))
			}
		}()
	}

	prehire, err := o.prehireRepo.GetByID(ctx, prehireID)
	if err != nil {
		return nil, err
	}

	bundle, err := o.bundleRepo.GetByID(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	if err := o.uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	opened, err := o.assign(ctx, prehire, bundle)
	if err != nil {
		if rbErr := o.uow.Rollback(); rbErr != nil {
			o.logger.Error("rollback failed", zap.Error(rbErr))
		}
		return nil, err
	}

	if err := o.uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	o.publishEvents(ctx, prehire, opened)

	return prehire, nil
}

func (o *AssignBundleOrchestrator) assign(ctx context.Context, prehire *entities.PreHire, bundle *entities.Bundle) ([]*entities.Ticket, error) {
	if err := prehire.AssignBundle(bundle.ID()); err != nil {
		return nil, err
	}

	// Assignment kicks the pipeline into provisioning
	if prehire.Stage() == entities.StagePaperwork {
		if err := prehire.AdvanceTo(entities.StageProvisioning); err != nil {
			return nil, err
		}
	}

	opened, err := o.provisionService.PlanBundle(ctx, prehire, bundle)
	if err != nil {
		return nil, err
	}

	if err := o.saveTicketsWithUoW(ctx, opened); err != nil {
		return nil, fmt.Errorf("failed to save tickets: %w", err)
	}

	if err := o.savePreHireWithUoW(ctx, prehire); err != nil {
		return nil, fmt.Errorf("failed to save pre-hire: %w", err)
	}

	return opened, nil
}

// The repository decides whether a write joins the transaction. Plain
// repositories without transactional support write directly.

func (o *AssignBundleOrchestrator) savePreHireWithUoW(ctx context.Context, prehire *entities.PreHire) error {
	if repoWithUoW, ok := o.prehireRepo.(interface {
		SaveWithUoW(context.Context, *entities.PreHire, interface{}) error
	}); ok {
		return repoWithUoW.SaveWithUoW(ctx, prehire, o.uow)
	}
	return o.prehireRepo.Save(ctx, prehire)
}

func (o *AssignBundleOrchestrator) saveTicketsWithUoW(ctx context.Context, tickets []*entities.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	if repoWithUoW, ok := o.ticketRepo.(interface {
		BulkSaveWithUoW(context.Context, []*entities.Ticket, interface{}) error
	}); ok {
		return repoWithUoW.BulkSaveWithUoW(ctx, tickets, o.uow)
	}
	return o.ticketRepo.BulkSave(ctx, tickets)
}

func (o *AssignBundleOrchestrator) publishEvents(ctx context.Context, prehire *entities.PreHire, opened []*entities.Ticket) {
	pending := prehire.GetUncommittedEvents()
	for _, ticket := range opened {
		pending = append(pending, ticket.GetUncommittedEvents()...)
	}

	if err := o.eventPublisher.PublishBatch(ctx, pending); err != nil {
		o.logger.Warn("failed to publish events",
			zap.String("prehireId", prehire.ID().String()),
			zap.Error(err))
		return
	}

	prehire.MarkEventsAsCommitted()
	for _, ticket := range opened {
		ticket.MarkEventsAsCommitted()
	}
}
