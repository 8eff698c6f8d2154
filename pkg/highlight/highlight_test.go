package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinSegments(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestAnnotateRoundTrip(t *testing.T) {
	cases := []struct {
		name        string
		text        string
		annotations []Annotation
	}{
		{
			name: "no annotations",
			text: "Kickoff meeting covered the Q3 onboarding plan.",
		},
		{
			name: "single match",
			text: "Jordan will prepare the laptop bundle by Friday.",
			annotations: []Annotation{
				{Value: "Jordan", Category: CategoryPerson},
			},
		},
		{
			name: "multiple matches and misses",
			text: "Budget is $4,200. Marketing owns the venue search, due 2025-09-02.",
			annotations: []Annotation{
				{Value: "$4,200", Category: CategoryMonetary},
				{Value: "Marketing", Category: CategoryDepartment},
				{Value: "2025-09-02", Category: CategoryDeadline},
				{Value: "Legal", Category: CategoryDepartment},
			},
		},
		{
			name: "overlapping requests",
			text: "Status: blocked on security review since Monday.",
			annotations: []Annotation{
				{Value: "blocked on security review", Category: CategoryRisk},
				{Value: "security review", Category: CategoryTask},
				{Value: "Monday", Category: CategoryDate},
			},
		},
		{
			name: "unicode text",
			text: "Renée confirmed the café venue for the all-hands.",
			annotations: []Annotation{
				{Value: "Renée", Category: CategoryPerson},
				{Value: "café venue", Category: CategoryGeneral},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			segments, _ := Annotate(tc.text, tc.annotations)
			assert.Equal(t, tc.text, joinSegments(segments), "concatenated segments must reproduce the source text")
		})
	}
}

func TestAnnotateNonOverlap(t *testing.T) {
	text := "Alex and Alexandra met with the Engineering team."
	segments, _ := Annotate(text, []Annotation{
		{Value: "Alex", Category: CategoryPerson},
		{Value: "Alexandra", Category: CategoryPerson},
		{Value: "Engineering", Category: CategoryDepartment},
	})

	// Verify annotated segments map to disjoint source ranges by walking the
	// output; segments are emitted in source order, so ranges may only grow.
	cursor := 0
	lastAnnotatedEnd := -1
	for _, seg := range segments {
		start := cursor
		end := cursor + len(seg.Text)
		if seg.Kind == SegmentAnnotated {
			assert.GreaterOrEqual(t, start, lastAnnotatedEnd, "annotated ranges must not overlap")
			lastAnnotatedEnd = end
		}
		cursor = end
	}
	assert.Equal(t, text, joinSegments(segments))
}

func TestAnnotateFirstMatchWins(t *testing.T) {
	segments, diags := Annotate("Casey met Casey", []Annotation{
		{Value: "Casey", Category: CategoryPerson},
	})

	require.Len(t, segments, 2)
	assert.Empty(t, diags)

	assert.Equal(t, SegmentAnnotated, segments[0].Kind)
	assert.Equal(t, "Casey", segments[0].Text)
	assert.Equal(t, CategoryPerson, segments[0].Category)

	assert.Equal(t, SegmentPlain, segments[1].Kind)
	assert.Equal(t, " met Casey", segments[1].Text)
}

func TestAnnotateOverlapRejectionIsOrderDependent(t *testing.T) {
	text := "2025-09-02"

	segments, diags := Annotate(text, []Annotation{
		{Value: "2025-09-02", Category: CategoryDate},
		{Value: "09-02", Category: CategoryDeadline},
	})

	require.Len(t, segments, 1)
	assert.Equal(t, SegmentAnnotated, segments[0].Kind)
	assert.Equal(t, CategoryDate, segments[0].Category)
	assert.Equal(t, text, segments[0].Text)

	require.Len(t, diags, 1)
	assert.Equal(t, SkipOverlap, diags[0].Reason)
	assert.Equal(t, "09-02", diags[0].Value)

	// Reversed input order flips the winner: the narrow span is accepted
	// first and blocks the full date.
	segments, diags = Annotate(text, []Annotation{
		{Value: "09-02", Category: CategoryDeadline},
		{Value: "2025-09-02", Category: CategoryDate},
	})

	require.Len(t, diags, 1)
	assert.Equal(t, SkipOverlap, diags[0].Reason)
	assert.Equal(t, "2025-09-02", diags[0].Value)

	var annotated []Segment
	for _, seg := range segments {
		if seg.Kind == SegmentAnnotated {
			annotated = append(annotated, seg)
		}
	}
	require.Len(t, annotated, 1)
	assert.Equal(t, "09-02", annotated[0].Text)
	assert.Equal(t, CategoryDeadline, annotated[0].Category)
}

func TestAnnotateCandidateContainingAcceptedIsRejected(t *testing.T) {
	text := "ship the badge printer by Thursday"

	_, diags := Annotate(text, []Annotation{
		{Value: "badge printer", Category: CategoryGeneral},
		{Value: "the badge printer by Thursday", Category: CategoryTask},
	})

	require.Len(t, diags, 1)
	assert.Equal(t, SkipOverlap, diags[0].Reason)
}

func TestAnnotateAdjacentSpansBothAccepted(t *testing.T) {
	text := "HRIT"
	segments, diags := Annotate(text, []Annotation{
		{Value: "HR", Category: CategoryDepartment},
		{Value: "IT", Category: CategoryDepartment},
	})

	assert.Empty(t, diags)
	require.Len(t, segments, 2)
	assert.Equal(t, SegmentAnnotated, segments[0].Kind)
	assert.Equal(t, SegmentAnnotated, segments[1].Kind)
	assert.Equal(t, text, joinSegments(segments))
}

func TestAnnotateNotFoundSkips(t *testing.T) {
	segments, diags := Annotate("Hello world", []Annotation{
		{Value: "Goodbye", Category: CategoryGeneral},
	})

	require.Len(t, segments, 1)
	assert.Equal(t, SegmentPlain, segments[0].Kind)
	assert.Equal(t, "Hello world", segments[0].Text)

	require.Len(t, diags, 1)
	assert.Equal(t, SkipNotFound, diags[0].Reason)
	assert.Equal(t, "Goodbye", diags[0].Value)
}

func TestAnnotateEmptyValueSkips(t *testing.T) {
	segments, diags := Annotate("Some text", []Annotation{
		{Value: "", Category: CategoryGeneral},
		{Value: "text", Category: CategoryGeneral},
	})

	require.Len(t, diags, 1)
	assert.Equal(t, SkipEmptyValue, diags[0].Reason)
	assert.Equal(t, "Some text", joinSegments(segments))
}

func TestAnnotateDisabledBypass(t *testing.T) {
	text := "Casey met Casey on 2025-09-02"
	segments, diags := AnnotateWithOptions(text, []Annotation{
		{Value: "Casey", Category: CategoryPerson},
		{Value: "2025-09-02", Category: CategoryDate},
	}, Options{Enabled: false})

	require.Len(t, segments, 1)
	assert.Equal(t, SegmentPlain, segments[0].Kind)
	assert.Equal(t, text, segments[0].Text)
	assert.Empty(t, diags)
}

func TestAnnotateEmptyText(t *testing.T) {
	segments, diags := Annotate("", []Annotation{
		{Value: "anything", Category: CategoryGeneral},
	})

	assert.Empty(t, segments)
	assert.Empty(t, diags)
}
