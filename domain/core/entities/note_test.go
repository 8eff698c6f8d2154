package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboardhq-backend/domain/core/valueobjects"
	pkgerrors "onboardhq-backend/pkg/errors"
	"onboardhq-backend/pkg/highlight"
)

func TestNewNote(t *testing.T) {
	annotations := []highlight.Annotation{
		{Value: "Casey Lee", Category: highlight.CategoryPerson},
	}

	note, err := NewNote(valueobjects.NewEventID(), "Orientation recap", "Casey Lee joined the session.", annotations)
	require.NoError(t, err)

	assert.Equal(t, RecapPending, note.RecapStatus())
	assert.Len(t, note.Annotations(), 1)

	raised := note.GetUncommittedEvents()
	require.Len(t, raised, 1)
	assert.Equal(t, "note.ingested", raised[0].GetEventType())
}

func TestNewNoteValidation(t *testing.T) {
	_, err := NewNote(valueobjects.NewEventID(), "", "text", nil)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNoteRender(t *testing.T) {
	annotations := []highlight.Annotation{
		{Value: "Casey Lee", Category: highlight.CategoryPerson},
		{Value: "blocked", Category: highlight.CategoryStatus},
	}

	note, err := NewNote(valueobjects.NewEventID(), "Recap", "Casey Lee is blocked on laptop delivery.", annotations)
	require.NoError(t, err)

	segments, diags := note.Render(highlight.DefaultOptions())
	assert.Empty(t, diags)

	var rebuilt string
	annotated := 0
	for _, seg := range segments {
		rebuilt += seg.Text
		if seg.Kind == highlight.SegmentAnnotated {
			annotated++
		}
	}
	assert.Equal(t, note.Text(), rebuilt)
	assert.Equal(t, 2, annotated)
}

func TestNoteRenderDisabled(t *testing.T) {
	note, err := NewNote(valueobjects.NewEventID(), "Recap", "Plain text.", []highlight.Annotation{
		{Value: "Plain", Category: highlight.CategoryGeneral},
	})
	require.NoError(t, err)

	segments, diags := note.Render(highlight.Options{Enabled: false})
	assert.Empty(t, diags)
	require.Len(t, segments, 1)
	assert.Equal(t, highlight.SegmentPlain, segments[0].Kind)
	assert.Equal(t, "Plain text.", segments[0].Text)
}

func TestNoteRecapDecision(t *testing.T) {
	note, err := NewNote(valueobjects.NewEventID(), "Recap", "text", nil)
	require.NoError(t, err)
	note.MarkEventsAsCommitted()

	require.NoError(t, note.DecideRecap(true, "alex@example.com"))
	assert.Equal(t, RecapApproved, note.RecapStatus())
	assert.Equal(t, "alex@example.com", note.ReviewedBy())

	raised := note.GetUncommittedEvents()
	require.Len(t, raised, 1)
	assert.Equal(t, "note.recap_decided", raised[0].GetEventType())

	// Deciding twice conflicts
	err = note.DecideRecap(false, "sam@example.com")
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict))

	// Approved notes are frozen
	err = note.UpdateText("new text", nil)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNoteUpdateTextResetsRecap(t *testing.T) {
	note, err := NewNote(valueobjects.NewEventID(), "Recap", "text", nil)
	require.NoError(t, err)
	require.NoError(t, note.DecideRecap(false, "alex@example.com"))

	require.NoError(t, note.UpdateText("revised text", []highlight.Annotation{
		{Value: "revised", Category: highlight.CategoryGeneral},
	}))
	assert.Equal(t, RecapPending, note.RecapStatus())
	assert.Empty(t, note.ReviewedBy())
	assert.Len(t, note.Annotations(), 1)
}
