package events

import (
	"time"

	"onboardhq-backend/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Pre-hire events

// PreHireCreated is raised when a new pre-hire record is opened
type PreHireCreated struct {
	BaseEvent
	PreHireID  valueobjects.PreHireID `json:"prehire_id"`
	Name       string                 `json:"name"`
	Email      string                 `json:"email"`
	Department string                 `json:"department"`
	StartDate  time.Time              `json:"start_date"`
}

// NewPreHireCreated creates a PreHireCreated event
func NewPreHireCreated(id valueobjects.PreHireID, name, email, department string, startDate, timestamp time.Time) PreHireCreated {
	return PreHireCreated{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "prehire.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		PreHireID:  id,
		Name:       name,
		Email:      email,
		Department: department,
		StartDate:  startDate,
	}
}

// PreHireStageChanged is raised when a pre-hire moves through the pipeline
type PreHireStageChanged struct {
	BaseEvent
	PreHireID valueobjects.PreHireID `json:"prehire_id"`
	OldStage  string                 `json:"old_stage"`
	NewStage  string                 `json:"new_stage"`
}

// NewPreHireStageChanged creates a PreHireStageChanged event
func NewPreHireStageChanged(id valueobjects.PreHireID, oldStage, newStage string, timestamp time.Time) PreHireStageChanged {
	return PreHireStageChanged{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "prehire.stage_changed",
			Timestamp:   timestamp,
			Version:     1,
		},
		PreHireID: id,
		OldStage:  oldStage,
		NewStage:  newStage,
	}
}

// BundleAssigned is raised when an equipment/software bundle is assigned
// to a pre-hire. The provisioner Lambda reacts to this event.
type BundleAssigned struct {
	BaseEvent
	PreHireID valueobjects.PreHireID `json:"prehire_id"`
	BundleID  valueobjects.BundleID  `json:"bundle_id"`
}

// NewBundleAssigned creates a BundleAssigned event
func NewBundleAssigned(prehireID valueobjects.PreHireID, bundleID valueobjects.BundleID, timestamp time.Time) BundleAssigned {
	return BundleAssigned{
		BaseEvent: BaseEvent{
			AggregateID: prehireID.String(),
			EventType:   "prehire.bundle_assigned",
			Timestamp:   timestamp,
			Version:     1,
		},
		PreHireID: prehireID,
		BundleID:  bundleID,
	}
}

// PreHireWithdrawn is raised when a candidate drops out before starting
type PreHireWithdrawn struct {
	BaseEvent
	PreHireID valueobjects.PreHireID `json:"prehire_id"`
	Reason    string                 `json:"reason"`
}

// NewPreHireWithdrawn creates a PreHireWithdrawn event
func NewPreHireWithdrawn(id valueobjects.PreHireID, reason string, timestamp time.Time) PreHireWithdrawn {
	return PreHireWithdrawn{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "prehire.withdrawn",
			Timestamp:   timestamp,
			Version:     1,
		},
		PreHireID: id,
		Reason:    reason,
	}
}

// Ticket events

// TicketOpened is raised when a provisioning ticket is created
type TicketOpened struct {
	BaseEvent
	TicketID      valueobjects.TicketID  `json:"ticket_id"`
	PreHireID     valueobjects.PreHireID `json:"prehire_id"`
	Summary       string                 `json:"summary"`
	AssigneeGroup string                 `json:"assignee_group"`
}

// NewTicketOpened creates a TicketOpened event
func NewTicketOpened(ticketID valueobjects.TicketID, prehireID valueobjects.PreHireID, summary, assigneeGroup string, timestamp time.Time) TicketOpened {
	return TicketOpened{
		BaseEvent: BaseEvent{
			AggregateID: ticketID.String(),
			EventType:   "ticket.opened",
			Timestamp:   timestamp,
			Version:     1,
		},
		TicketID:      ticketID,
		PreHireID:     prehireID,
		Summary:       summary,
		AssigneeGroup: assigneeGroup,
	}
}

// TicketStatusChanged is raised when a ticket moves through its workflow
type TicketStatusChanged struct {
	BaseEvent
	TicketID  valueobjects.TicketID `json:"ticket_id"`
	OldStatus string                `json:"old_status"`
	NewStatus string                `json:"new_status"`
}

// NewTicketStatusChanged creates a TicketStatusChanged event
func NewTicketStatusChanged(id valueobjects.TicketID, oldStatus, newStatus string, timestamp time.Time) TicketStatusChanged {
	return TicketStatusChanged{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "ticket.status_changed",
			Timestamp:   timestamp,
			Version:     1,
		},
		TicketID:  id,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
}

// Event-management events

// EventScheduled is raised when a company event is scheduled at a venue
type EventScheduled struct {
	BaseEvent
	EventID valueobjects.EventID `json:"event_id"`
	VenueID valueobjects.VenueID `json:"venue_id"`
	Start   time.Time            `json:"start"`
	End     time.Time            `json:"end"`
}

// NewEventScheduled creates an EventScheduled event
func NewEventScheduled(eventID valueobjects.EventID, venueID valueobjects.VenueID, start, end, timestamp time.Time) EventScheduled {
	return EventScheduled{
		BaseEvent: BaseEvent{
			AggregateID: eventID.String(),
			EventType:   "event.scheduled",
			Timestamp:   timestamp,
			Version:     1,
		},
		EventID: eventID,
		VenueID: venueID,
		Start:   start,
		End:     end,
	}
}

// EventCancelled is raised when a company event is cancelled
type EventCancelled struct {
	BaseEvent
	EventID valueobjects.EventID `json:"event_id"`
	Reason  string               `json:"reason"`
}

// NewEventCancelled creates an EventCancelled event
func NewEventCancelled(id valueobjects.EventID, reason string, timestamp time.Time) EventCancelled {
	return EventCancelled{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "event.cancelled",
			Timestamp:   timestamp,
			Version:     1,
		},
		EventID: id,
		Reason:  reason,
	}
}

// Meeting-note events

// NoteIngested is raised when a summarized meeting note is stored
type NoteIngested struct {
	BaseEvent
	NoteID          valueobjects.NoteID `json:"note_id"`
	EventID         string              `json:"event_id,omitempty"`
	AnnotationCount int                 `json:"annotation_count"`
}

// NewNoteIngested creates a NoteIngested event
func NewNoteIngested(noteID valueobjects.NoteID, eventID string, annotationCount int, timestamp time.Time) NoteIngested {
	return NoteIngested{
		BaseEvent: BaseEvent{
			AggregateID: noteID.String(),
			EventType:   "note.ingested",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID:          noteID,
		EventID:         eventID,
		AnnotationCount: annotationCount,
	}
}

// RecapDecided is raised when a note's recap is approved or rejected
type RecapDecided struct {
	BaseEvent
	NoteID     valueobjects.NoteID `json:"note_id"`
	Approved   bool                `json:"approved"`
	ReviewedBy string              `json:"reviewed_by"`
}

// NewRecapDecided creates a RecapDecided event
func NewRecapDecided(id valueobjects.NoteID, approved bool, reviewedBy string, timestamp time.Time) RecapDecided {
	return RecapDecided{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "note.recap_decided",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID:     id,
		Approved:   approved,
		ReviewedBy: reviewedBy,
	}
}
