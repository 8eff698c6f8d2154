package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"onboardhq-backend/application/commands"
	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/validators"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/pkg/utils"
)

// CreatePreHireHandler handles pre-hire creation
type CreatePreHireHandler struct {
	prehireRepo ports.PreHireRepository
	eventBus    ports.EventPublisher
	validator   *validators.PreHireValidator
	logger      *zap.Logger
}

// NewCreatePreHireHandler creates a new handler instance
func NewCreatePreHireHandler(
	prehireRepo ports.PreHireRepository,
	eventBus ports.EventPublisher,
	validator *validators.PreHireValidator,
	logger *zap.Logger,
) *CreatePreHireHandler {
	return &CreatePreHireHandler{
		prehireRepo: prehireRepo,
		eventBus:    eventBus,
		validator:   validator,
		logger:      logger,
	}
}

// Handle executes the create pre-hire command
func (h *CreatePreHireHandler) Handle(ctx context.Context, cmd commands.CreatePreHireCommand) (*entities.PreHire, error) {
	startDate, err := utils.ParseDate(cmd.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}

	if err := h.validator.ValidateNew(cmd.Name, cmd.Email, cmd.Department, startDate); err != nil {
		return nil, err
	}

	email, err := valueobjects.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	// Duplicate emails point at a double-submitted form
	if existing, err := h.prehireRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("pre-hire already exists for %s", email.String())
	}

	prehire, err := entities.NewPreHire(cmd.Name, email, cmd.Department, cmd.Role, startDate)
	if err != nil {
		return nil, err
	}

	if err := h.prehireRepo.Save(ctx, prehire); err != nil {
		return nil, fmt.Errorf("failed to save pre-hire: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, prehire.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish events",
			zap.String("prehireId", prehire.ID().String()),
			zap.Error(err))
	} else {
		prehire.MarkEventsAsCommitted()
	}

	h.logger.Info("pre-hire created",
		zap.String("prehireId", prehire.ID().String()),
		zap.String("department", cmd.Department))

	return prehire, nil
}

// AdvanceStageHandler handles stage transitions
type AdvanceStageHandler struct {
	prehireRepo ports.PreHireRepository
	eventBus    ports.EventPublisher
	logger      *zap.Logger
}

// NewAdvanceStageHandler creates a new handler instance
func NewAdvanceStageHandler(
	prehireRepo ports.PreHireRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *AdvanceStageHandler {
	return &AdvanceStageHandler{
		prehireRepo: prehireRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the advance stage command
func (h *AdvanceStageHandler) Handle(ctx context.Context, cmd commands.AdvanceStageCommand) error {
	prehire, err := h.loadPreHire(ctx, cmd.PreHireID)
	if err != nil {
		return err
	}

	if err := prehire.AdvanceTo(entities.Stage(cmd.Stage)); err != nil {
		return err
	}

	if err := h.prehireRepo.Save(ctx, prehire); err != nil {
		return fmt.Errorf("failed to save pre-hire: %w", err)
	}

	h.publish(ctx, prehire)
	return nil
}

func (h *AdvanceStageHandler) loadPreHire(ctx context.Context, rawID string) (*entities.PreHire, error) {
	id, err := valueobjects.NewPreHireIDFromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid pre-hire ID: %w", err)
	}
	return h.prehireRepo.GetByID(ctx, id)
}

func (h *AdvanceStageHandler) publish(ctx context.Context, prehire *entities.PreHire) {
	if err := h.eventBus.PublishBatch(ctx, prehire.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish events",
			zap.String("prehireId", prehire.ID().String()),
			zap.Error(err))
		return
	}
	prehire.MarkEventsAsCommitted()
}

// AssignManagerHandler records a manager on a pre-hire
type AssignManagerHandler struct {
	prehireRepo ports.PreHireRepository
	logger      *zap.Logger
}

// NewAssignManagerHandler creates a new handler instance
func NewAssignManagerHandler(prehireRepo ports.PreHireRepository, logger *zap.Logger) *AssignManagerHandler {
	return &AssignManagerHandler{prehireRepo: prehireRepo, logger: logger}
}

// Handle executes the assign manager command
func (h *AssignManagerHandler) Handle(ctx context.Context, cmd commands.AssignManagerCommand) error {
	id, err := valueobjects.NewPreHireIDFromString(cmd.PreHireID)
	if err != nil {
		return fmt.Errorf("invalid pre-hire ID: %w", err)
	}

	prehire, err := h.prehireRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := prehire.AssignManager(cmd.Manager); err != nil {
		return err
	}

	return h.prehireRepo.Save(ctx, prehire)
}

// ReschedulePreHireHandler changes a pre-hire's start date
type ReschedulePreHireHandler struct {
	prehireRepo ports.PreHireRepository
	logger      *zap.Logger
}

// NewReschedulePreHireHandler creates a new handler instance
func NewReschedulePreHireHandler(prehireRepo ports.PreHireRepository, logger *zap.Logger) *ReschedulePreHireHandler {
	return &ReschedulePreHireHandler{prehireRepo: prehireRepo, logger: logger}
}

// Handle executes the reschedule command
func (h *ReschedulePreHireHandler) Handle(ctx context.Context, cmd commands.ReschedulePreHireCommand) error {
	id, err := valueobjects.NewPreHireIDFromString(cmd.PreHireID)
	if err != nil {
		return fmt.Errorf("invalid pre-hire ID: %w", err)
	}

	startDate, err := utils.ParseDate(cmd.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}

	prehire, err := h.prehireRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := prehire.Reschedule(startDate, nil); err != nil {
		return err
	}

	if err := h.prehireRepo.Save(ctx, prehire); err != nil {
		return fmt.Errorf("failed to save pre-hire: %w", err)
	}

	h.logger.Info("pre-hire rescheduled",
		zap.String("prehireId", cmd.PreHireID),
		zap.String("startDate", cmd.StartDate))

	return nil
}

// WithdrawPreHireHandler closes the pipeline for a dropped-out candidate.
// Open tickets are cancelled so IT stops working on them.
type WithdrawPreHireHandler struct {
	prehireRepo ports.PreHireRepository
	ticketRepo  ports.TicketRepository
	eventBus    ports.EventPublisher
	logger      *zap.Logger
}

// NewWithdrawPreHireHandler creates a new handler instance
func NewWithdrawPreHireHandler(
	prehireRepo ports.PreHireRepository,
	ticketRepo ports.TicketRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *WithdrawPreHireHandler {
	return &WithdrawPreHireHandler{
		prehireRepo: prehireRepo,
		ticketRepo:  ticketRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the withdraw command
func (h *WithdrawPreHireHandler) Handle(ctx context.Context, cmd commands.WithdrawPreHireCommand) error {
	id, err := valueobjects.NewPreHireIDFromString(cmd.PreHireID)
	if err != nil {
		return fmt.Errorf("invalid pre-hire ID: %w", err)
	}

	prehire, err := h.prehireRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := prehire.Withdraw(cmd.Reason); err != nil {
		return err
	}

	tickets, err := h.ticketRepo.GetByPreHireID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load tickets: %w", err)
	}

	cancelled := []*entities.Ticket{}
	for _, ticket := range tickets {
		if ticket.IsTerminal() {
			continue
		}
		if err := ticket.Transition(entities.TicketCancelled); err != nil {
			h.logger.Warn("failed to cancel ticket",
				zap.String("ticketId", ticket.ID().String()),
				zap.Error(err))
			continue
		}
		cancelled = append(cancelled, ticket)
	}

	if len(cancelled) > 0 {
		if err := h.ticketRepo.BulkSave(ctx, cancelled); err != nil {
			return fmt.Errorf("failed to save cancelled tickets: %w", err)
		}
	}

	if err := h.prehireRepo.Save(ctx, prehire); err != nil {
		return fmt.Errorf("failed to save pre-hire: %w", err)
	}

	pending := prehire.GetUncommittedEvents()
	for _, ticket := range cancelled {
		pending = append(pending, ticket.GetUncommittedEvents()...)
	}
	if err := h.eventBus.PublishBatch(ctx, pending); err != nil {
		h.logger.Warn("failed to publish events", zap.Error(err))
	} else {
		prehire.MarkEventsAsCommitted()
		for _, ticket := range cancelled {
			ticket.MarkEventsAsCommitted()
		}
	}

	h.logger.Info("pre-hire withdrawn",
		zap.String("prehireId", cmd.PreHireID),
		zap.Int("cancelledTickets", len(cancelled)))

	return nil
}

// DeletePreHireHandler removes a pre-hire and its tickets
type DeletePreHireHandler struct {
	prehireRepo ports.PreHireRepository
	ticketRepo  ports.TicketRepository
	logger      *zap.Logger
}

// NewDeletePreHireHandler creates a new handler instance
func NewDeletePreHireHandler(
	prehireRepo ports.PreHireRepository,
	ticketRepo ports.TicketRepository,
	logger *zap.Logger,
) *DeletePreHireHandler {
	return &DeletePreHireHandler{
		prehireRepo: prehireRepo,
		ticketRepo:  ticketRepo,
		logger:      logger,
	}
}

// Handle executes the delete command
func (h *DeletePreHireHandler) Handle(ctx context.Context, cmd commands.DeletePreHireCommand) error {
	id, err := valueobjects.NewPreHireIDFromString(cmd.PreHireID)
	if err != nil {
		return fmt.Errorf("invalid pre-hire ID: %w", err)
	}

	tickets, err := h.ticketRepo.GetByPreHireID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load tickets: %w", err)
	}
	for _, ticket := range tickets {
		if err := h.ticketRepo.Delete(ctx, ticket.ID()); err != nil {
			return fmt.Errorf("failed to delete ticket %s: %w", ticket.ID().String(), err)
		}
	}

	if err := h.prehireRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pre-hire: %w", err)
	}

	h.logger.Info("pre-hire deleted",
		zap.String("prehireId", cmd.PreHireID),
		zap.Int("deletedTickets", len(tickets)))

	return nil
}
