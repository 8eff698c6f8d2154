// Package highlight overlays semantic annotation spans onto plain text.
// Annotations name a literal substring and a category; the package resolves
// each one to a character range, rejects conflicting ranges, and partitions
// the text into an ordered sequence of plain and annotated segments that the
// rendering layer can style per category.
//
// Usage:
//
//	segments, diags := highlight.Annotate(text, annotations)
//	// render segments; log diags
package highlight

import (
	"sort"
	"strings"
)

// Category is the semantic kind of an annotation. It selects a display style
// and carries no weight in span resolution.
type Category string

const (
	CategoryPerson     Category = "person"
	CategoryDate       Category = "date"
	CategoryStatus     Category = "status"
	CategoryTask       Category = "task"
	CategoryDepartment Category = "department"
	CategoryMonetary   Category = "monetary"
	CategoryDeadline   Category = "deadline"
	CategoryRisk       Category = "risk"
	CategoryGeneral    Category = "general"
)

// Annotation is a request to highlight the first occurrence of Value.
type Annotation struct {
	Value    string   `json:"value"`
	Category Category `json:"category"`
}

// Span is a resolved half-open byte interval [Start, End) within the source
// text. Accepted spans are pairwise non-overlapping.
type Span struct {
	Start    int
	End      int
	Category Category
}

// SegmentKind distinguishes plain from annotated output.
type SegmentKind string

const (
	SegmentPlain     SegmentKind = "plain"
	SegmentAnnotated SegmentKind = "annotated"
)

// Segment is a contiguous slice of the output. Concatenating the Text of all
// segments reproduces the source text exactly.
type Segment struct {
	Kind     SegmentKind `json:"kind"`
	Text     string      `json:"text"`
	Category Category    `json:"category,omitempty"`
}

// SkipReason explains why an annotation produced no segment.
type SkipReason string

const (
	SkipEmptyValue SkipReason = "empty-value"
	SkipNotFound   SkipReason = "not-found"
	SkipOverlap    SkipReason = "overlap"
)

// Diagnostic records a skipped annotation. Diagnostics are developer-facing;
// they never alter the segment output.
type Diagnostic struct {
	Reason SkipReason `json:"reason"`
	Value  string     `json:"value"`
}

// Options controls the annotate pipeline.
type Options struct {
	// Enabled bypasses span resolution entirely when false; the text comes
	// back as a single plain segment regardless of annotations supplied.
	Enabled bool
}

// DefaultOptions returns the standard pipeline options.
func DefaultOptions() Options {
	return Options{Enabled: true}
}

// Annotate resolves annotations against text and returns the segment
// sequence plus diagnostics for every skipped annotation.
func Annotate(text string, annotations []Annotation) ([]Segment, []Diagnostic) {
	return AnnotateWithOptions(text, annotations, DefaultOptions())
}

// AnnotateWithOptions is Annotate with explicit options.
//
// Annotations are processed in input order. Each value is located by its
// leftmost exact occurrence; a candidate whose range overlaps an already
// accepted span is rejected (first-accepted-wins), so which annotation claims
// a contested region depends on input ordering. Empty text yields zero
// segments.
func AnnotateWithOptions(text string, annotations []Annotation, opts Options) ([]Segment, []Diagnostic) {
	if text == "" {
		return nil, nil
	}

	if !opts.Enabled || len(annotations) == 0 {
		return []Segment{{Kind: SegmentPlain, Text: text}}, nil
	}

	accepted := make([]Span, 0, len(annotations))
	var diags []Diagnostic

	for _, ann := range annotations {
		if ann.Value == "" {
			diags = append(diags, Diagnostic{Reason: SkipEmptyValue, Value: ann.Value})
			continue
		}

		idx := strings.Index(text, ann.Value)
		if idx < 0 {
			diags = append(diags, Diagnostic{Reason: SkipNotFound, Value: ann.Value})
			continue
		}

		candidate := Span{Start: idx, End: idx + len(ann.Value), Category: ann.Category}
		if overlapsAny(candidate, accepted) {
			diags = append(diags, Diagnostic{Reason: SkipOverlap, Value: ann.Value})
			continue
		}

		accepted = append(accepted, candidate)
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Start < accepted[j].Start
	})

	return buildSegments(text, accepted), diags
}

// overlapsAny reports whether candidate intersects any accepted span.
// Touching spans ([0,5) and [5,8)) do not overlap.
func overlapsAny(candidate Span, accepted []Span) bool {
	for _, sp := range accepted {
		if candidate.Start < sp.End && candidate.End > sp.Start {
			return true
		}
	}
	return false
}

// buildSegments partitions text into plain and annotated segments covering
// the whole string exactly once. Spans must be sorted and non-overlapping.
func buildSegments(text string, spans []Span) []Segment {
	if len(spans) == 0 {
		return []Segment{{Kind: SegmentPlain, Text: text}}
	}

	segments := make([]Segment, 0, 2*len(spans)+1)
	cursor := 0

	for _, sp := range spans {
		if sp.Start > cursor {
			segments = append(segments, Segment{Kind: SegmentPlain, Text: text[cursor:sp.Start]})
		}
		segments = append(segments, Segment{
			Kind:     SegmentAnnotated,
			Text:     text[sp.Start:sp.End],
			Category: sp.Category,
		})
		cursor = sp.End
	}

	if cursor < len(text) {
		segments = append(segments, Segment{Kind: SegmentPlain, Text: text[cursor:]})
	}

	return segments
}
