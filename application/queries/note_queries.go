package queries

import "errors"

// GetNoteQuery represents a query for a single note
type GetNoteQuery struct {
	NoteID string
}

// Validate validates the GetNoteQuery
func (q GetNoteQuery) Validate() error {
	if q.NoteID == "" {
		return errors.New("note ID is required")
	}
	return nil
}

// ListNotesQuery lists notes, optionally scoped to an event
type ListNotesQuery struct {
	EventID  string
	Page     int
	PageSize int
}

// Validate validates the ListNotesQuery
func (q ListNotesQuery) Validate() error {
	if q.Page < 0 || q.PageSize < 0 {
		return errors.New("page and page size must be non-negative")
	}
	return nil
}

// RenderNoteQuery asks for a note's text split into highlighted segments.
// Highlighting can be switched off to get the raw text back as one
// plain segment.
type RenderNoteQuery struct {
	NoteID    string
	Highlight bool
}

// Validate validates the RenderNoteQuery
func (q RenderNoteQuery) Validate() error {
	if q.NoteID == "" {
		return errors.New("note ID is required")
	}
	return nil
}

// AnnotationResult represents one stored annotation
type AnnotationResult struct {
	Value    string `json:"value"`
	Category string `json:"category"`
}

// NoteResult represents a note in query responses
type NoteResult struct {
	ID          string             `json:"id"`
	EventID     string             `json:"eventId,omitempty"`
	Title       string             `json:"title"`
	Text        string             `json:"text"`
	Annotations []AnnotationResult `json:"annotations"`
	RecapStatus string             `json:"recapStatus"`
	ReviewedBy  string             `json:"reviewedBy,omitempty"`
	Version     int                `json:"version"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt"`
}

// ListNotesResult represents a page of notes
type ListNotesResult struct {
	Notes    []NoteResult `json:"notes"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

// SegmentResult is one run of note text, annotated or plain
type SegmentResult struct {
	Kind     string       `json:"kind"`
	Text     string       `json:"text"`
	Category string       `json:"category,omitempty"`
	Style    *StyleResult `json:"style,omitempty"`
}

// StyleResult carries the presentation hints for an annotated segment
type StyleResult struct {
	Color  string `json:"color"`
	Weight string `json:"weight"`
}

// DiagnosticResult explains why an annotation was skipped
type DiagnosticResult struct {
	Reason string `json:"reason"`
	Value  string `json:"value"`
}

// RenderNoteResult is the highlighted view of a note
type RenderNoteResult struct {
	NoteID      string             `json:"noteId"`
	Title       string             `json:"title"`
	Segments    []SegmentResult    `json:"segments"`
	Diagnostics []DiagnosticResult `json:"diagnostics"`
}
