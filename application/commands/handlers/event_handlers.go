package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"onboardhq-backend/application/commands"
	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// ScheduleEventHandler schedules company events, checking the venue is
// active and free for the requested window
type ScheduleEventHandler struct {
	eventRepo ports.EventRepository
	venueRepo ports.VenueRepository
	eventBus  ports.EventPublisher
	logger    *zap.Logger
}

// NewScheduleEventHandler creates a new handler instance
func NewScheduleEventHandler(
	eventRepo ports.EventRepository,
	venueRepo ports.VenueRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *ScheduleEventHandler {
	return &ScheduleEventHandler{
		eventRepo: eventRepo,
		venueRepo: venueRepo,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// Handle executes the schedule event command
func (h *ScheduleEventHandler) Handle(ctx context.Context, cmd commands.ScheduleEventCommand) (*entities.Event, error) {
	venueID, err := valueobjects.NewVenueIDFromString(cmd.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID: %w", err)
	}

	venue, err := h.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if !venue.IsActive() {
		return nil, pkgerrors.NewValidationError("venue is not bookable")
	}

	schedule, err := parseSchedule(cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}

	if cmd.Capacity > venue.Capacity() {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("capacity %d exceeds venue capacity %d", cmd.Capacity, venue.Capacity()))
	}

	if err := h.checkVenueFree(ctx, venueID, schedule, valueobjects.EventID{}); err != nil {
		return nil, err
	}

	event, err := entities.NewEvent(cmd.Title, venueID, schedule, cmd.Capacity)
	if err != nil {
		return nil, err
	}

	if err := h.eventRepo.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, event.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish events",
			zap.String("eventId", event.ID().String()),
			zap.Error(err))
	} else {
		event.MarkEventsAsCommitted()
	}

	h.logger.Info("event scheduled",
		zap.String("eventId", event.ID().String()),
		zap.String("venueId", cmd.VenueID))

	return event, nil
}

func (h *ScheduleEventHandler) checkVenueFree(ctx context.Context, venueID valueobjects.VenueID, schedule valueobjects.Schedule, ignore valueobjects.EventID) error {
	booked, err := h.eventRepo.GetByVenueID(ctx, venueID)
	if err != nil {
		return fmt.Errorf("failed to load venue bookings: %w", err)
	}

	for _, existing := range booked {
		if existing.Status() != entities.EventScheduled {
			continue
		}
		if !ignore.IsZero() && existing.ID().Equals(ignore) {
			continue
		}
		if existing.Schedule().Overlaps(schedule) {
			return pkgerrors.NewConflictError(
				fmt.Sprintf("venue already booked by %s", existing.Title()))
		}
	}
	return nil
}

// HandleReschedule executes the reschedule event command
func (h *ScheduleEventHandler) HandleReschedule(ctx context.Context, cmd commands.RescheduleEventCommand) (*entities.Event, error) {
	eventID, err := valueobjects.NewEventIDFromString(cmd.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	event, err := h.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	schedule, err := parseSchedule(cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}

	if err := h.checkVenueFree(ctx, event.VenueID(), schedule, event.ID()); err != nil {
		return nil, err
	}

	if err := event.Reschedule(schedule); err != nil {
		return nil, err
	}

	if err := h.eventRepo.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, event.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish events", zap.Error(err))
	} else {
		event.MarkEventsAsCommitted()
	}

	return event, nil
}

// HandleCancel executes the cancel event command
func (h *ScheduleEventHandler) HandleCancel(ctx context.Context, cmd commands.CancelEventCommand) error {
	eventID, err := valueobjects.NewEventIDFromString(cmd.EventID)
	if err != nil {
		return fmt.Errorf("invalid event ID: %w", err)
	}

	event, err := h.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if err := event.Cancel(cmd.Reason); err != nil {
		return err
	}

	if err := h.eventRepo.Save(ctx, event); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, event.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish events", zap.Error(err))
	} else {
		event.MarkEventsAsCommitted()
	}

	return nil
}

// AttendeeHandler registers and unregisters pre-hires on events
type AttendeeHandler struct {
	eventRepo   ports.EventRepository
	prehireRepo ports.PreHireRepository
	logger      *zap.Logger
}

// NewAttendeeHandler creates a new handler instance
func NewAttendeeHandler(
	eventRepo ports.EventRepository,
	prehireRepo ports.PreHireRepository,
	logger *zap.Logger,
) *AttendeeHandler {
	return &AttendeeHandler{
		eventRepo:   eventRepo,
		prehireRepo: prehireRepo,
		logger:      logger,
	}
}

// HandleRegister executes the register attendee command
func (h *AttendeeHandler) HandleRegister(ctx context.Context, cmd commands.RegisterAttendeeCommand) error {
	event, prehireID, err := h.load(ctx, cmd.EventID, cmd.PreHireID)
	if err != nil {
		return err
	}

	// Registration requires a live pre-hire record
	if _, err := h.prehireRepo.GetByID(ctx, prehireID); err != nil {
		return err
	}

	if err := event.Register(prehireID); err != nil {
		return err
	}

	return h.eventRepo.Save(ctx, event)
}

// HandleUnregister executes the unregister attendee command
func (h *AttendeeHandler) HandleUnregister(ctx context.Context, cmd commands.UnregisterAttendeeCommand) error {
	event, prehireID, err := h.load(ctx, cmd.EventID, cmd.PreHireID)
	if err != nil {
		return err
	}

	if err := event.Unregister(prehireID); err != nil {
		return err
	}

	return h.eventRepo.Save(ctx, event)
}

func (h *AttendeeHandler) load(ctx context.Context, rawEventID, rawPreHireID string) (*entities.Event, valueobjects.PreHireID, error) {
	eventID, err := valueobjects.NewEventIDFromString(rawEventID)
	if err != nil {
		return nil, valueobjects.PreHireID{}, fmt.Errorf("invalid event ID: %w", err)
	}
	prehireID, err := valueobjects.NewPreHireIDFromString(rawPreHireID)
	if err != nil {
		return nil, valueobjects.PreHireID{}, fmt.Errorf("invalid pre-hire ID: %w", err)
	}

	event, err := h.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, valueobjects.PreHireID{}, err
	}
	return event, prehireID, nil
}

// VenueHandler handles venue lifecycle commands
type VenueHandler struct {
	venueRepo ports.VenueRepository
	cache     ports.Cache
	logger    *zap.Logger
}

// NewVenueHandler creates a new handler instance. The cache holds list
// query results and is dropped after every mutation; pass nil when no
// query cache is in play.
func NewVenueHandler(venueRepo ports.VenueRepository, cache ports.Cache, logger *zap.Logger) *VenueHandler {
	return &VenueHandler{venueRepo: venueRepo, cache: cache, logger: logger}
}

func (h *VenueHandler) invalidate(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Clear(ctx); err != nil {
		h.logger.Warn("failed to clear query cache", zap.Error(err))
	}
}

// HandleCreate executes the create venue command
func (h *VenueHandler) HandleCreate(ctx context.Context, cmd commands.CreateVenueCommand) (*entities.Venue, error) {
	venue, err := entities.NewVenue(cmd.Name, cmd.Address, cmd.Capacity, cmd.Amenities)
	if err != nil {
		return nil, err
	}

	if err := h.venueRepo.Save(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to save venue: %w", err)
	}

	h.invalidate(ctx)
	return venue, nil
}

// HandleUpdate executes the update venue command
func (h *VenueHandler) HandleUpdate(ctx context.Context, cmd commands.UpdateVenueCommand) (*entities.Venue, error) {
	venueID, err := valueobjects.NewVenueIDFromString(cmd.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID: %w", err)
	}

	venue, err := h.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}

	if err := venue.UpdateDetails(cmd.Name, cmd.Address, cmd.Capacity); err != nil {
		return nil, err
	}

	if err := h.venueRepo.Save(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to save venue: %w", err)
	}

	h.invalidate(ctx)
	return venue, nil
}

// HandleDeactivate executes the deactivate venue command
func (h *VenueHandler) HandleDeactivate(ctx context.Context, cmd commands.DeactivateVenueCommand) error {
	venueID, err := valueobjects.NewVenueIDFromString(cmd.VenueID)
	if err != nil {
		return fmt.Errorf("invalid venue ID: %w", err)
	}

	venue, err := h.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return err
	}

	venue.Deactivate()

	if err := h.venueRepo.Save(ctx, venue); err != nil {
		return err
	}

	h.invalidate(ctx)
	return nil
}

func parseSchedule(start, end string) (valueobjects.Schedule, error) {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return valueobjects.Schedule{}, pkgerrors.NewValidationError("start must be RFC3339")
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return valueobjects.Schedule{}, pkgerrors.NewValidationError("end must be RFC3339")
	}
	return valueobjects.NewSchedule(s, e)
}
