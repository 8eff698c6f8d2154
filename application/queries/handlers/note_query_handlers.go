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
	"onboardhq-backend/pkg/highlight"
	"onboardhq-backend/pkg/observability"
)

// NoteQueryHandler serves note reads, including the highlighted render view
type NoteQueryHandler struct {
	noteRepo ports.NoteRepository
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewNoteQueryHandler creates a new handler instance
func NewNoteQueryHandler(noteRepo ports.NoteRepository, metrics *observability.Metrics, logger *zap.Logger) *NoteQueryHandler {
	return &NoteQueryHandler{noteRepo: noteRepo, metrics: metrics, logger: logger}
}

// HandleGet serves a single note with its raw text and annotations
func (h *NoteQueryHandler) HandleGet(ctx context.Context, query queries.GetNoteQuery) (*queries.NoteResult, error) {
	note, err := h.load(ctx, query.NoteID)
	if err != nil {
		return nil, err
	}

	result := toNoteResult(note)
	return &result, nil
}

// HandleList serves notes, optionally scoped to one event
func (h *NoteQueryHandler) HandleList(ctx context.Context, query queries.ListNotesQuery) (*queries.ListNotesResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var notes []*entities.Note
	var err error
	if query.EventID != "" {
		eventID, idErr := valueobjects.NewEventIDFromString(query.EventID)
		if idErr != nil {
			return nil, fmt.Errorf("invalid event ID: %w", idErr)
		}
		notes, err = h.noteRepo.GetByEventID(ctx, eventID)
	} else {
		notes, err = h.noteRepo.List(ctx, ports.ListCriteria{
			Limit:  pageSize,
			Offset: (page - 1) * pageSize,
		})
	}
	if err != nil {
		return nil, err
	}

	results := make([]queries.NoteResult, 0, len(notes))
	for _, n := range notes {
		results = append(results, toNoteResult(n))
	}

	return &queries.ListNotesResult{
		Notes:    results,
		Total:    len(results),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// HandleRender serves the highlighted segment view of a note. Skipped
// annotations come back as diagnostics rather than failing the render.
func (h *NoteQueryHandler) HandleRender(ctx context.Context, query queries.RenderNoteQuery) (*queries.RenderNoteResult, error) {
	note, err := h.load(ctx, query.NoteID)
	if err != nil {
		return nil, err
	}

	segments, diags := note.Render(highlight.Options{Enabled: query.Highlight})

	result := &queries.RenderNoteResult{
		NoteID:      note.ID().String(),
		Title:       note.Title(),
		Segments:    make([]queries.SegmentResult, 0, len(segments)),
		Diagnostics: make([]queries.DiagnosticResult, 0, len(diags)),
	}

	for _, seg := range segments {
		out := queries.SegmentResult{Text: seg.Text}
		if seg.Kind == highlight.SegmentAnnotated {
			out.Kind = "annotated"
			out.Category = string(seg.Category)
			style := highlight.StyleFor(seg.Category, seg.Text)
			out.Style = &queries.StyleResult{
				Color:  style.Color,
				Weight: style.Weight,
			}
		} else {
			out.Kind = "plain"
		}
		result.Segments = append(result.Segments, out)
	}

	for _, d := range diags {
		result.Diagnostics = append(result.Diagnostics, queries.DiagnosticResult{
			Reason: string(d.Reason),
			Value:  d.Value,
		})
	}

	if h.metrics != nil && len(diags) > 0 {
		h.metrics.Count(ctx, "NoteRenderDiagnostics", float64(len(diags)), map[string]string{
			"noteId": note.ID().String(),
		})
	}

	return result, nil
}

func (h *NoteQueryHandler) load(ctx context.Context, rawID string) (*entities.Note, error) {
	noteID, err := valueobjects.NewNoteIDFromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid note ID: %w", err)
	}
	return h.noteRepo.GetByID(ctx, noteID)
}

func toNoteResult(n *entities.Note) queries.NoteResult {
	annotations := make([]queries.AnnotationResult, 0, len(n.Annotations()))
	for _, a := range n.Annotations() {
		annotations = append(annotations, queries.AnnotationResult{
			Value:    a.Value,
			Category: string(a.Category),
		})
	}

	eventID := ""
	if !n.EventID().IsZero() {
		eventID = n.EventID().String()
	}

	return queries.NoteResult{
		ID:          n.ID().String(),
		EventID:     eventID,
		Title:       n.Title(),
		Text:        n.Text(),
		Annotations: annotations,
		RecapStatus: string(n.RecapStatus()),
		ReviewedBy:  n.ReviewedBy(),
		Version:     n.Version(),
		CreatedAt:   n.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   n.UpdatedAt().Format(time.RFC3339),
	}
}
