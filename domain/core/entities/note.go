package entities

import (
	"fmt"
	"strings"
	"time"

	"onboardhq-backend/domain/config"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/domain/events"
	pkgerrors "onboardhq-backend/pkg/errors"
	"onboardhq-backend/pkg/highlight"
)

// RecapStatus represents the review state of a note's recap
type RecapStatus string

const (
	RecapPending  RecapStatus = "pending"
	RecapApproved RecapStatus = "approved"
	RecapRejected RecapStatus = "rejected"
)

// Note is a summarized meeting note. The text is stored raw alongside its
// annotations; highlighting is computed at read time so stored notes never
// carry markup.
type Note struct {
	id          valueobjects.NoteID
	eventID     valueobjects.EventID
	title       string
	text        string
	annotations []highlight.Annotation
	recapStatus RecapStatus
	reviewedBy  string
	createdAt   time.Time
	updatedAt   time.Time
	version     int

	events []events.DomainEvent
}

// NewNote ingests a summarized meeting note with its annotations
func NewNote(eventID valueobjects.EventID, title, text string, annotations []highlight.Annotation) (*Note, error) {
	return NewNoteWithConfig(eventID, title, text, annotations, config.DefaultDomainConfig())
}

// NewNoteWithConfig ingests a note with explicit configuration
func NewNoteWithConfig(eventID valueobjects.EventID, title, text string, annotations []highlight.Annotation, cfg *config.DomainConfig) (*Note, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}

	if len(text) > cfg.MaxNoteLength {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("text exceeds %d characters", cfg.MaxNoteLength))
	}

	if len(annotations) > cfg.MaxAnnotationsPerNote {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("note exceeds %d annotations", cfg.MaxAnnotationsPerNote))
	}

	if annotations == nil {
		annotations = []highlight.Annotation{}
	}

	now := time.Now()
	note := &Note{
		id:          valueobjects.NewNoteID(),
		eventID:     eventID,
		title:       title,
		text:        text,
		annotations: annotations,
		recapStatus: RecapPending,
		createdAt:   now,
		updatedAt:   now,
		version:     1,
		events:      []events.DomainEvent{},
	}

	note.addEvent(events.NewNoteIngested(note.id, eventID.String(), len(annotations), now))

	return note, nil
}

// ReconstructNote reconstructs a note from repository data
func ReconstructNote(
	id valueobjects.NoteID,
	eventID valueobjects.EventID,
	title, text string,
	annotations []highlight.Annotation,
	recapStatus RecapStatus,
	reviewedBy string,
	createdAt, updatedAt time.Time,
	version int,
) (*Note, error) {
	if title == "" {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}

	if annotations == nil {
		annotations = []highlight.Annotation{}
	}

	return &Note{
		id:          id,
		eventID:     eventID,
		title:       title,
		text:        text,
		annotations: annotations,
		recapStatus: recapStatus,
		reviewedBy:  reviewedBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
		events:      []events.DomainEvent{},
	}, nil
}

// ID returns the note's unique identifier
func (n *Note) ID() valueobjects.NoteID {
	return n.id
}

// EventID returns the event this note recaps, zero for standalone notes
func (n *Note) EventID() valueobjects.EventID {
	return n.eventID
}

// Title returns the note title
func (n *Note) Title() string {
	return n.title
}

// Text returns the raw note text
func (n *Note) Text() string {
	return n.text
}

// Annotations returns a copy of the note's annotations in ingestion order
func (n *Note) Annotations() []highlight.Annotation {
	annotations := make([]highlight.Annotation, len(n.annotations))
	copy(annotations, n.annotations)
	return annotations
}

// RecapStatus returns the review state
func (n *Note) RecapStatus() RecapStatus {
	return n.recapStatus
}

// ReviewedBy returns who decided the recap, empty while pending
func (n *Note) ReviewedBy() string {
	return n.reviewedBy
}

// CreatedAt returns when the note was ingested
func (n *Note) CreatedAt() time.Time {
	return n.createdAt
}

// UpdatedAt returns the last modification time
func (n *Note) UpdatedAt() time.Time {
	return n.updatedAt
}

// Version returns the note's version for optimistic locking
func (n *Note) Version() int {
	return n.version
}

// UpdateText replaces the note text and annotations together. Annotations
// are positionless values so they must be re-supplied whenever the text
// changes.
func (n *Note) UpdateText(text string, annotations []highlight.Annotation) error {
	return n.UpdateTextWithConfig(text, annotations, config.DefaultDomainConfig())
}

// UpdateTextWithConfig replaces text and annotations with explicit configuration
func (n *Note) UpdateTextWithConfig(text string, annotations []highlight.Annotation, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if n.recapStatus == RecapApproved {
		return pkgerrors.NewValidationError("cannot edit an approved note")
	}

	if len(text) > cfg.MaxNoteLength {
		return pkgerrors.NewValidationError(fmt.Sprintf("text exceeds %d characters", cfg.MaxNoteLength))
	}

	if len(annotations) > cfg.MaxAnnotationsPerNote {
		return pkgerrors.NewValidationError(fmt.Sprintf("note exceeds %d annotations", cfg.MaxAnnotationsPerNote))
	}

	if annotations == nil {
		annotations = []highlight.Annotation{}
	}

	n.text = text
	n.annotations = annotations
	n.recapStatus = RecapPending
	n.reviewedBy = ""
	n.updatedAt = time.Now()
	n.version++

	return nil
}

// DecideRecap records an approval or rejection of the recap
func (n *Note) DecideRecap(approved bool, reviewedBy string) error {
	if reviewedBy == "" {
		return pkgerrors.NewValidationError("reviewedBy is required")
	}

	if n.recapStatus != RecapPending {
		return pkgerrors.NewConflictError("recap already decided")
	}

	if approved {
		n.recapStatus = RecapApproved
	} else {
		n.recapStatus = RecapRejected
	}
	n.reviewedBy = reviewedBy
	n.updatedAt = time.Now()
	n.version++

	n.addEvent(events.NewRecapDecided(n.id, approved, reviewedBy, n.updatedAt))

	return nil
}

// Render computes the highlighted segment view of the note text
func (n *Note) Render(opts highlight.Options) ([]highlight.Segment, []highlight.Diagnostic) {
	return highlight.AnnotateWithOptions(n.text, n.annotations, opts)
}

// GetUncommittedEvents returns events raised since the last commit
func (n *Note) GetUncommittedEvents() []events.DomainEvent {
	return n.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (n *Note) MarkEventsAsCommitted() {
	n.events = []events.DomainEvent{}
}

func (n *Note) addEvent(event events.DomainEvent) {
	n.events = append(n.events, event)
}
