package entities

import (
	"fmt"
	"strings"
	"time"

	"onboardhq-backend/domain/config"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"
	pkgerrors "onboardhq-backend/pkg/errors"
)

// EventStatus represents the state of a company event
type EventStatus string

const (
	EventScheduled EventStatus = "scheduled"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Event is a company event such as an orientation session or team offsite.
// Events are booked at a venue and may have meeting notes attached later.
type Event struct {
	id        valueobjects.EventID
	title     string
	venueID   valueobjects.VenueID
	schedule  valueobjects.Schedule
	capacity  int
	attendees []valueobjects.PreHireID
	status    EventStatus
	createdAt time.Time
	updatedAt time.Time
	version   int

	events []events.DomainEvent
}

// NewEvent schedules a new company event at a venue
func NewEvent(title string, venueID valueobjects.VenueID, schedule valueobjects.Schedule, capacity int) (*Event, error) {
	return NewEventWithConfig(title, venueID, schedule, capacity, config.DefaultDomainConfig())
}

// NewEventWithConfig schedules a new event with explicit configuration
func NewEventWithConfig(title string, venueID valueobjects.VenueID, schedule valueobjects.Schedule, capacity int, cfg *config.DomainConfig) (*Event, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}

	if cfg.RequireVenueForEvents && venueID.IsZero() {
		return nil, pkgerrors.NewValidationError("venueID is required")
	}

	if schedule.IsZero() {
		return nil, pkgerrors.NewValidationError("schedule is required")
	}

	if capacity < 1 {
		return nil, pkgerrors.NewValidationError("capacity must be at least 1")
	}
	if capacity > cfg.MaxEventCapacity {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("capacity exceeds %d", cfg.MaxEventCapacity))
	}

	now := time.Now()
	event := &Event{
		id:        valueobjects.NewEventID(),
		title:     title,
		venueID:   venueID,
		schedule:  schedule,
		capacity:  capacity,
		attendees: []valueobjects.PreHireID{},
		status:    EventScheduled,
		createdAt: now,
		updatedAt: now,
		version:   1,
		events:    []events.DomainEvent{},
	}

	event.addEvent(events.NewEventScheduled(event.id, venueID, schedule.Start(), schedule.End(), now))

	return event, nil
}

// ReconstructEvent reconstructs an event from repository data
func ReconstructEvent(
	id valueobjects.EventID,
	title string,
	venueID valueobjects.VenueID,
	schedule valueobjects.Schedule,
	capacity int,
	attendees []valueobjects.PreHireID,
	status EventStatus,
	createdAt, updatedAt time.Time,
	version int,
) (*Event, error) {
	if title == "" {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}

	if attendees == nil {
		attendees = []valueobjects.PreHireID{}
	}

	return &Event{
		id:        id,
		title:     title,
		venueID:   venueID,
		schedule:  schedule,
		capacity:  capacity,
		attendees: attendees,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
		events:    []events.DomainEvent{},
	}, nil
}

// ID returns the event's unique identifier
func (e *Event) ID() valueobjects.EventID {
	return e.id
}

// Title returns the event title
func (e *Event) Title() string {
	return e.title
}

// VenueID returns the booked venue
func (e *Event) VenueID() valueobjects.VenueID {
	return e.venueID
}

// Schedule returns the event's time window
func (e *Event) Schedule() valueobjects.Schedule {
	return e.schedule
}

// Capacity returns the maximum attendee count
func (e *Event) Capacity() int {
	return e.capacity
}

// Attendees returns a copy of the registered attendee list
func (e *Event) Attendees() []valueobjects.PreHireID {
	attendees := make([]valueobjects.PreHireID, len(e.attendees))
	copy(attendees, e.attendees)
	return attendees
}

// Status returns the event's current status
func (e *Event) Status() EventStatus {
	return e.status
}

// CreatedAt returns when the event was scheduled
func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}

// UpdatedAt returns the last modification time
func (e *Event) UpdatedAt() time.Time {
	return e.updatedAt
}

// Version returns the event's version for optimistic locking
func (e *Event) Version() int {
	return e.version
}

// Register adds a pre-hire to the attendee list
func (e *Event) Register(prehireID valueobjects.PreHireID) error {
	if e.status != EventScheduled {
		return pkgerrors.NewValidationError("cannot register for a closed event")
	}

	if prehireID.IsZero() {
		return pkgerrors.NewValidationError("prehireID is required")
	}

	for _, existing := range e.attendees {
		if existing.Equals(prehireID) {
			return pkgerrors.NewConflictError("already registered")
		}
	}

	if len(e.attendees) >= e.capacity {
		return pkgerrors.NewValidationError("event is at capacity")
	}

	e.attendees = append(e.attendees, prehireID)
	e.updatedAt = time.Now()
	e.version++

	return nil
}

// Unregister removes a pre-hire from the attendee list
func (e *Event) Unregister(prehireID valueobjects.PreHireID) error {
	found := false
	newAttendees := []valueobjects.PreHireID{}
	for _, existing := range e.attendees {
		if !existing.Equals(prehireID) {
			newAttendees = append(newAttendees, existing)
		} else {
			found = true
		}
	}

	if !found {
		return pkgerrors.NewNotFoundError("attendee")
	}

	e.attendees = newAttendees
	e.updatedAt = time.Now()
	e.version++

	return nil
}

// Reschedule moves the event to a new time window
func (e *Event) Reschedule(schedule valueobjects.Schedule) error {
	if e.status != EventScheduled {
		return pkgerrors.NewValidationError("cannot reschedule a closed event")
	}

	if schedule.IsZero() {
		return pkgerrors.NewValidationError("schedule is required")
	}

	if schedule.Equals(e.schedule) {
		return nil // No change needed
	}

	e.schedule = schedule
	e.updatedAt = time.Now()
	e.version++

	e.addEvent(events.NewEventScheduled(e.id, e.venueID, schedule.Start(), schedule.End(), e.updatedAt))

	return nil
}

// Complete marks the event as held
func (e *Event) Complete() error {
	if e.status == EventCompleted {
		return nil // Already completed
	}

	if e.status == EventCancelled {
		return pkgerrors.NewValidationError("cannot complete a cancelled event")
	}

	e.status = EventCompleted
	e.updatedAt = time.Now()
	e.version++

	return nil
}

// Cancel cancels the event and records the reason
func (e *Event) Cancel(reason string) error {
	if e.status == EventCancelled {
		return nil // Already cancelled
	}

	if e.status == EventCompleted {
		return pkgerrors.NewValidationError("cannot cancel a completed event")
	}

	e.status = EventCancelled
	e.updatedAt = time.Now()
	e.version++

	e.addEvent(events.NewEventCancelled(e.id, reason, e.updatedAt))

	return nil
}

// GetUncommittedEvents returns events raised since the last commit
func (e *Event) GetUncommittedEvents() []events.DomainEvent {
	return e.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (e *Event) MarkEventsAsCommitted() {
	e.events = []events.DomainEvent{}
}

func (e *Event) addEvent(event events.DomainEvent) {
	e.events = append(e.events, event)
}
