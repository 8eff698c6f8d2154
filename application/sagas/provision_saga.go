package sagas

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/application/services"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
)

// ProvisionSagaInput identifies the bundle assignment being provisioned
type ProvisionSagaInput struct {
	PreHireID string
	BundleID  string
}

// provisionSagaData is threaded through the saga steps
type provisionSagaData struct {
	input   ProvisionSagaInput
	prehire *entities.PreHire
	bundle  *entities.Bundle
	opened  []*entities.Ticket
}

// ProvisionSaga expands an assigned bundle into tickets with rollback.
// It runs in the provisioner worker in response to bundle-assigned events;
// if any step fails, tickets opened so far are cancelled.
type ProvisionSaga struct {
	prehireRepo      ports.PreHireRepository
	bundleRepo       ports.BundleRepository
	ticketRepo       ports.TicketRepository
	provisionService *services.ProvisionService
	eventPublisher   ports.EventPublisher
	notifier         ports.Notifier
	logger           *zap.Logger
}

// NewProvisionSaga creates a new provision saga factory
func NewProvisionSaga(
	prehireRepo ports.PreHireRepository,
	bundleRepo ports.BundleRepository,
	ticketRepo ports.TicketRepository,
	provisionService *services.ProvisionService,
	eventPublisher ports.EventPublisher,
	notifier ports.Notifier,
	logger *zap.Logger,
) *ProvisionSaga {
	return &ProvisionSaga{
		prehireRepo:      prehireRepo,
		bundleRepo:       bundleRepo,
		ticketRepo:       ticketRepo,
		provisionService: provisionService,
		eventPublisher:   eventPublisher,
		notifier:         notifier,
		logger:           logger,
	}
}

// Run executes the provisioning saga for one bundle assignment
func (p *ProvisionSaga) Run(ctx context.Context, input ProvisionSagaInput) error {
	saga := New("provision-bundle", p.logger)

	saga.AddStep(Step{
		Name:    "load-records",
		Execute: p.loadRecords,
	})
	saga.AddStep(Step{
		Name:       "expand-bundle",
		Execute:    p.expandBundle,
		Compensate: p.cancelOpenedTickets,
	})
	saga.AddStep(Step{
		Name:    "save-prehire",
		Execute: p.savePreHire,
	})
	saga.AddStep(Step{
		Name:       "publish-events",
		Execute:    p.publishEvents,
		MaxRetries: 3,
	})
	saga.AddStep(Step{
		Name:       "notify-progress",
		Execute:    p.notifyProgress,
		MaxRetries: 2,
	})

	_, err := saga.Execute(ctx, &provisionSagaData{input: input})
	return err
}

func (p *ProvisionSaga) loadRecords(ctx context.Context, raw interface{}) (interface{}, error) {
	data := raw.(*provisionSagaData)

	prehireID, err := valueobjects.NewPreHireIDFromString(data.input.PreHireID)
	if err != nil {
		return nil, fmt.Errorf("invalid pre-hire ID: %w", err)
	}
	bundleID, err := valueobjects.NewBundleIDFromString(data.input.BundleID)
	if err != nil {
		return nil, fmt.Errorf("invalid bundle ID: %w", err)
	}

	data.prehire, err = p.prehireRepo.GetByID(ctx, prehireID)
	if err != nil {
		return nil, err
	}
	data.bundle, err = p.bundleRepo.GetByID(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (p *ProvisionSaga) expandBundle(ctx context.Context, raw interface{}) (interface{}, error) {
	data := raw.(*provisionSagaData)

	if data.prehire.Stage() == entities.StagePaperwork {
		if err := data.prehire.AdvanceTo(entities.StageProvisioning); err != nil {
			return nil, err
		}
	}

	opened, err := p.provisionService.ExpandBundle(ctx, data.prehire, data.bundle)
	if err != nil {
		return nil, err
	}
	data.opened = opened

	return data, nil
}

func (p *ProvisionSaga) cancelOpenedTickets(ctx context.Context, raw interface{}) error {
	data := raw.(*provisionSagaData)

	for _, ticket := range data.opened {
		if err := ticket.Transition(entities.TicketCancelled); err != nil {
			p.logger.Warn("failed to cancel ticket during rollback",
				zap.String("ticketId", ticket.ID().String()),
				zap.Error(err))
			continue
		}
		if err := p.ticketRepo.Save(ctx, ticket); err != nil {
			p.logger.Warn("failed to save cancelled ticket during rollback",
				zap.String("ticketId", ticket.ID().String()),
				zap.Error(err))
		}
	}
	return nil
}

func (p *ProvisionSaga) savePreHire(ctx context.Context, raw interface{}) (interface{}, error) {
	data := raw.(*provisionSagaData)

	if err := p.prehireRepo.Save(ctx, data.prehire); err != nil {
		return nil, fmt.Errorf("failed to save pre-hire: %w", err)
	}
	return data, nil
}

func (p *ProvisionSaga) publishEvents(ctx context.Context, raw interface{}) (interface{}, error) {
	data := raw.(*provisionSagaData)

	pending := data.prehire.GetUncommittedEvents()
	for _, ticket := range data.opened {
		pending = append(pending, ticket.GetUncommittedEvents()...)
	}

	if err := p.eventPublisher.PublishBatch(ctx, pending); err != nil {
		return nil, err
	}

	data.prehire.MarkEventsAsCommitted()
	for _, ticket := range data.opened {
		ticket.MarkEventsAsCommitted()
	}

	return data, nil
}

func (p *ProvisionSaga) notifyProgress(ctx context.Context, raw interface{}) (interface{}, error) {
	data := raw.(*provisionSagaData)

	if p.notifier == nil {
		return data, nil
	}

	tickets, err := p.ticketRepo.GetByPreHireID(ctx, data.prehire.ID())
	if err != nil {
		return nil, err
	}

	open := 0
	for _, t := range tickets {
		if !t.IsTerminal() {
			open++
		}
	}

	if err := p.notifier.NotifyProvisioningProgress(ctx, data.prehire.ID(), open, len(tickets)); err != nil {
		return nil, err
	}

	return data, nil
}
