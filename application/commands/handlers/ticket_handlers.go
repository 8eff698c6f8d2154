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

// OpenTicketHandler opens ad-hoc provisioning tickets
type OpenTicketHandler struct {
	prehireRepo ports.PreHireRepository
	ticketRepo  ports.TicketRepository
	eventBus    ports.EventPublisher
	logger      *zap.Logger
}

// NewOpenTicketHandler creates a new handler instance
func NewOpenTicketHandler(
	prehireRepo ports.PreHireRepository,
	ticketRepo ports.TicketRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *OpenTicketHandler {
	return &OpenTicketHandler{
		prehireRepo: prehireRepo,
		ticketRepo:  ticketRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the open ticket command
func (h *OpenTicketHandler) Handle(ctx context.Context, cmd commands.OpenTicketCommand) (*entities.Ticket, error) {
	prehireID, err := valueobjects.NewPreHireIDFromString(cmd.PreHireID)
	if err != nil {
		return nil, fmt.Errorf("invalid pre-hire ID: %w", err)
	}

	prehire, err := h.prehireRepo.GetByID(ctx, prehireID)
	if err != nil {
		return nil, err
	}

	ticket, err := entities.NewTicket(prehire.ID(), cmd.Summary, cmd.SKU, cmd.AssigneeGroup)
	if err != nil {
		return nil, err
	}

	if err := prehire.TrackTicket(ticket.ID()); err != nil {
		return nil, err
	}

	if err := h.ticketRepo.Save(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to save ticket: %w", err)
	}
	if err := h.prehireRepo.Save(ctx, prehire); err != nil {
		return nil, fmt.Errorf("failed to save pre-hire: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, ticket.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish events",
			zap.String("ticketId", ticket.ID().String()),
			zap.Error(err))
	} else {
		ticket.MarkEventsAsCommitted()
	}

	return ticket, nil
}

// TransitionTicketHandler moves tickets through the workflow, advancing
// the pre-hire to ready when the last ticket closes
type TransitionTicketHandler struct {
	ticketRepo       ports.TicketRepository
	provisionService *services.ProvisionService
	eventBus         ports.EventPublisher
	notifier         ports.Notifier
	logger           *zap.Logger
}

// NewTransitionTicketHandler creates a new handler instance
func NewTransitionTicketHandler(
	ticketRepo ports.TicketRepository,
	provisionService *services.ProvisionService,
	eventBus ports.EventPublisher,
	notifier ports.Notifier,
	logger *zap.Logger,
) *TransitionTicketHandler {
	return &TransitionTicketHandler{
		ticketRepo:       ticketRepo,
		provisionService: provisionService,
		eventBus:         eventBus,
		notifier:         notifier,
		logger:           logger,
	}
}

// Handle executes the transition ticket command
func (h *TransitionTicketHandler) Handle(ctx context.Context, cmd commands.TransitionTicketCommand) (*entities.Ticket, error) {
	ticketID, err := valueobjects.NewTicketIDFromString(cmd.TicketID)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket ID: %w", err)
	}

	ticket, err := h.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	status := entities.TicketStatus(cmd.Status)
	if status == entities.TicketBlocked {
		if err := ticket.Block(cmd.Reason); err != nil {
			return nil, err
		}
		if err := h.ticketRepo.Save(ctx, ticket); err != nil {
			return nil, fmt.Errorf("failed to save ticket: %w", err)
		}
		h.publish(ctx, ticket, -1, -1)
		return ticket, nil
	}

	openCount, totalCount, err := h.provisionService.RecordTicketProgress(ctx, ticket, status)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, ticket, openCount, totalCount)
	return ticket, nil
}

func (h *TransitionTicketHandler) publish(ctx context.Context, ticket *entities.Ticket, openCount, totalCount int) {
	if err := h.eventBus.PublishBatch(ctx, ticket.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish events",
			zap.String("ticketId", ticket.ID().String()),
			zap.Error(err))
	} else {
		ticket.MarkEventsAsCommitted()
	}

	if h.notifier != nil && openCount >= 0 {
		if err := h.notifier.NotifyProvisioningProgress(ctx, ticket.PreHireID(), openCount, totalCount); err != nil {
			h.logger.Debug("progress notification failed", zap.Error(err))
		}
	}
}

// ReassignTicketHandler hands tickets to a different IT group
type ReassignTicketHandler struct {
	ticketRepo ports.TicketRepository
	logger     *zap.Logger
}

// NewReassignTicketHandler creates a new handler instance
func NewReassignTicketHandler(ticketRepo ports.TicketRepository, logger *zap.Logger) *ReassignTicketHandler {
	return &ReassignTicketHandler{ticketRepo: ticketRepo, logger: logger}
}

// Handle executes the reassign ticket command
func (h *ReassignTicketHandler) Handle(ctx context.Context, cmd commands.ReassignTicketCommand) error {
	ticketID, err := valueobjects.NewTicketIDFromString(cmd.TicketID)
	if err != nil {
		return fmt.Errorf("invalid ticket ID: %w", err)
	}

	ticket, err := h.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}

	if err := ticket.Reassign(cmd.AssigneeGroup); err != nil {
		return err
	}

	return h.ticketRepo.Save(ctx, ticket)
}
