package commands

import "errors"

const (
	MaxNoteTextLength = 50000
	MaxAnnotations    = 200
)

// AnnotationInput is one annotation attached to an ingested note
type AnnotationInput struct {
	Value    string `json:"value"`
	Category string `json:"category" validate:"required"`
}

// IngestNoteCommand stores a summarized meeting note with its annotations
type IngestNoteCommand struct {
	EventID     string            `json:"event_id" validate:"omitempty,uuid"`
	Title       string            `json:"title" validate:"required,min=1,max=200"`
	Text        string            `json:"text" validate:"max=50000"`
	Annotations []AnnotationInput `json:"annotations" validate:"max=200,dive"`
}

// Validate validates the IngestNoteCommand
func (cmd IngestNoteCommand) Validate() error {
	if cmd.Title == "" {
		return errors.New("title is required")
	}
	if len(cmd.Text) > MaxNoteTextLength {
		return errors.New("text exceeds maximum length")
	}
	if len(cmd.Annotations) > MaxAnnotations {
		return errors.New("too many annotations")
	}
	for _, a := range cmd.Annotations {
		if a.Category == "" {
			return errors.New("annotation category is required")
		}
	}
	return nil
}

// UpdateNoteCommand replaces a note's text and annotations
type UpdateNoteCommand struct {
	NoteID      string            `json:"note_id" validate:"required,uuid"`
	Text        string            `json:"text" validate:"max=50000"`
	Annotations []AnnotationInput `json:"annotations" validate:"max=200,dive"`
}

// Validate validates the UpdateNoteCommand
func (cmd UpdateNoteCommand) Validate() error {
	if cmd.NoteID == "" {
		return errors.New("note ID is required")
	}
	if len(cmd.Text) > MaxNoteTextLength {
		return errors.New("text exceeds maximum length")
	}
	if len(cmd.Annotations) > MaxAnnotations {
		return errors.New("too many annotations")
	}
	return nil
}

// DecideRecapCommand approves or rejects a note's recap
type DecideRecapCommand struct {
	NoteID     string `json:"note_id" validate:"required,uuid"`
	Approved   bool   `json:"approved"`
	ReviewedBy string `json:"reviewed_by" validate:"required"`
}

// Validate validates the DecideRecapCommand
func (cmd DecideRecapCommand) Validate() error {
	if cmd.NoteID == "" {
		return errors.New("note ID is required")
	}
	if cmd.ReviewedBy == "" {
		return errors.New("reviewed_by is required")
	}
	return nil
}

// DeleteNoteCommand removes a note
type DeleteNoteCommand struct {
	NoteID string `json:"note_id" validate:"required,uuid"`
}

// Validate validates the DeleteNoteCommand
func (cmd DeleteNoteCommand) Validate() error {
	if cmd.NoteID == "" {
		return errors.New("note ID is required")
	}
	return nil
}
