package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"onboardhq-backend/application/commands"
	"onboardhq-backend/application/ports"
	"onboardhq-backend/domain/core/entities"
	"onboardhq-backend/domain/core/valueobjects"
	"onboardhq-backend/pkg/highlight"
)

// NoteHandler handles meeting-note lifecycle commands
type NoteHandler struct {
	noteRepo  ports.NoteRepository
	eventRepo ports.EventRepository
	eventBus  ports.EventPublisher
	logger    *zap.Logger
}

// NewNoteHandler creates a new handler instance
func NewNoteHandler(
	noteRepo ports.NoteRepository,
	eventRepo ports.EventRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *NoteHandler {
	return &NoteHandler{
		noteRepo:  noteRepo,
		eventRepo: eventRepo,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// HandleIngest executes the ingest note command
func (h *NoteHandler) HandleIngest(ctx context.Context, cmd commands.IngestNoteCommand) (*entities.Note, error) {
	var eventID valueobjects.EventID
	if cmd.EventID != "" {
		parsed, err := valueobjects.NewEventIDFromString(cmd.EventID)
		if err != nil {
			return nil, fmt.Errorf("invalid event ID: %w", err)
		}
		// Notes may only attach to events that exist
		if _, err := h.eventRepo.GetByID(ctx, parsed); err != nil {
			return nil, err
		}
		eventID = parsed
	}

	note, err := entities.NewNote(eventID, cmd.Title, cmd.Text, toAnnotations(cmd.Annotations))
	if err != nil {
		return nil, err
	}

	if err := h.noteRepo.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, note.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish events",
			zap.String("noteId", note.ID().String()),
			zap.Error(err))
	} else {
		note.MarkEventsAsCommitted()
	}

	h.logger.Info("note ingested",
		zap.String("noteId", note.ID().String()),
		zap.Int("annotations", len(cmd.Annotations)))

	return note, nil
}

// HandleUpdate executes the update note command
func (h *NoteHandler) HandleUpdate(ctx context.Context, cmd commands.UpdateNoteCommand) (*entities.Note, error) {
	note, err := h.load(ctx, cmd.NoteID)
	if err != nil {
		return nil, err
	}

	if err := note.UpdateText(cmd.Text, toAnnotations(cmd.Annotations)); err != nil {
		return nil, err
	}

	if err := h.noteRepo.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	return note, nil
}

// HandleDecideRecap executes the recap decision command
func (h *NoteHandler) HandleDecideRecap(ctx context.Context, cmd commands.DecideRecapCommand) (*entities.Note, error) {
	note, err := h.load(ctx, cmd.NoteID)
	if err != nil {
		return nil, err
	}

	if err := note.DecideRecap(cmd.Approved, cmd.ReviewedBy); err != nil {
		return nil, err
	}

	if err := h.noteRepo.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, note.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish events", zap.Error(err))
	} else {
		note.MarkEventsAsCommitted()
	}

	return note, nil
}

// HandleDelete executes the delete note command
func (h *NoteHandler) HandleDelete(ctx context.Context, cmd commands.DeleteNoteCommand) error {
	noteID, err := valueobjects.NewNoteIDFromString(cmd.NoteID)
	if err != nil {
		return fmt.Errorf("invalid note ID: %w", err)
	}

	return h.noteRepo.Delete(ctx, noteID)
}

func (h *NoteHandler) load(ctx context.Context, rawID string) (*entities.Note, error) {
	noteID, err := valueobjects.NewNoteIDFromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid note ID: %w", err)
	}
	return h.noteRepo.GetByID(ctx, noteID)
}

func toAnnotations(inputs []commands.AnnotationInput) []highlight.Annotation {
	annotations := make([]highlight.Annotation, 0, len(inputs))
	for _, in := range inputs {
		annotations = append(annotations, highlight.Annotation{
			Value:    in.Value,
			Category: highlight.Category(in.Category),
		})
	}
	return annotations
}
