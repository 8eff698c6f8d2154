package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"onboardhq-backend/application/ports"
	"onboardhq-backend/application/queries"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
)

// EventQueryHandler serves company event and venue reads
type EventQueryHandler struct {
	eventRepo ports.EventRepository
	venueRepo ports.VenueRepository
	logger    *zap.Logger
}

// NewEventQueryHandler creates a new handler instance
func NewEventQueryHandler(
	eventRepo ports.EventRepository,
	venueRepo ports.VenueRepository,
	logger *zap.Logger,
) *EventQueryHandler {
	return &EventQueryHandler{
		eventRepo: eventRepo,
		venueRepo: venueRepo,
		logger:    logger,
	}
}

// HandleGetEvent serves a single event
func (h *EventQueryHandler) HandleGetEvent(ctx context.Context, query queries.GetEventQuery) (*queries.EventResult, error) {
	id, err := valueobjects.NewEventIDFromString(query.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	event, err := h.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toEventResult(event)
	return &result, nil
}

// HandleListEvents serves a filtered event listing
func (h *EventQueryHandler) HandleListEvents(ctx context.Context, query queries.ListEventsQuery) (*queries.ListEventsResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var events []*entities.Event
	var err error
	if query.VenueID != "" {
		venueID, idErr := valueobjects.NewVenueIDFromString(query.VenueID)
		if idErr != nil {
			return nil, fmt.Errorf("invalid venue ID: %w", idErr)
		}
		events, err = h.eventRepo.GetByVenueID(ctx, venueID)
	} else {
		events, err = h.eventRepo.List(ctx, ports.ListCriteria{
			Status: query.Status,
			Limit:  pageSize,
			Offset: (page - 1) * pageSize,
		})
	}
	if err != nil {
		return nil, err
	}

	results := make([]queries.EventResult, 0, len(events))
	for _, e := range events {
		if query.Status != "" && string(e.Status()) != query.Status {
			continue
		}
		results = append(results, toEventResult(e))
	}

	return &queries.ListEventsResult{
		Events:   results,
		Total:    len(results),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// HandleGetVenue serves a single venue
func (h *EventQueryHandler) HandleGetVenue(ctx context.Context, query queries.GetVenueQuery) (*queries.VenueResult, error) {
	id, err := valueobjects.NewVenueIDFromString(query.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID: %w", err)
	}

	venue, err := h.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toVenueResult(venue)
	return &result, nil
}

// HandleListVenues serves a venue listing
func (h *EventQueryHandler) HandleListVenues(ctx context.Context, query queries.ListVenuesQuery) (*queries.ListVenuesResult, error) {
	venues, err := h.venueRepo.List(ctx, query.ActiveOnly)
	if err != nil {
		return nil, err
	}

	results := make([]queries.VenueResult, 0, len(venues))
	for _, v := range venues {
		results = append(results, toVenueResult(v))
	}

	return &queries.ListVenuesResult{Venues: results, Total: len(results)}, nil
}

func toEventResult(e *entities.Event) queries.EventResult {
	attendees := make([]string, 0, len(e.Attendees()))
	for _, id := range e.Attendees() {
		attendees = append(attendees, id.String())
	}

	return queries.EventResult{
		ID:        e.ID().String(),
		Title:     e.Title(),
		VenueID:   e.VenueID().String(),
		Start:     e.Schedule().Start().Format(time.RFC3339),
		End:       e.Schedule().End().Format(time.RFC3339),
		Capacity:  e.Capacity(),
		Attendees: attendees,
		Status:    string(e.Status()),
		Version:   e.Version(),
		CreatedAt: e.CreatedAt().Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt().Format(time.RFC3339),
	}
}

func toVenueResult(v *entities.Venue) queries.VenueResult {
	return queries.VenueResult{
		ID:        v.ID().String(),
		Name:      v.Name(),
		Address:   v.Address(),
		Capacity:  v.Capacity(),
		Amenities: v.Amenities(),
		Active:    v.IsActive(),
		Version:   v.Version(),
		CreatedAt: v.CreatedAt().Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt().Format(time.RFC3339),
	}
}
