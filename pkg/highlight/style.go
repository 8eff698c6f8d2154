package highlight

import "strings"

// Style is the presentation hint attached to an annotated segment. Geometry
// is decided before styling; changing a style never moves a span.
type Style struct {
	Color  string `json:"color"`
	Weight string `json:"weight"`
}

// Tone is the sub-style for status annotations, derived from the annotated
// text itself.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneWarning  Tone = "warning"
	ToneNeutral  Tone = "neutral"
)

var categoryStyles = map[Category]Style{
	CategoryPerson:     {Color: "#6d28d9", Weight: "semibold"},
	CategoryDate:       {Color: "#0369a1", Weight: "medium"},
	CategoryTask:       {Color: "#1d4ed8", Weight: "medium"},
	CategoryDepartment: {Color: "#0f766e", Weight: "medium"},
	CategoryMonetary:   {Color: "#15803d", Weight: "semibold"},
	CategoryDeadline:   {Color: "#c2410c", Weight: "semibold"},
	CategoryRisk:       {Color: "#b91c1c", Weight: "bold"},
	CategoryGeneral:    {Color: "#374151", Weight: "medium"},
}

var statusToneStyles = map[Tone]Style{
	TonePositive: {Color: "#15803d", Weight: "semibold"},
	ToneNegative: {Color: "#b91c1c", Weight: "semibold"},
	ToneWarning:  {Color: "#b45309", Weight: "semibold"},
	ToneNeutral:  {Color: "#4b5563", Weight: "medium"},
}

var (
	positiveWords = []string{"done", "complete", "completed", "approved", "on track", "resolved", "confirmed", "shipped"}
	negativeWords = []string{"blocked", "failed", "cancelled", "canceled", "rejected", "overdue", "at risk", "missed"}
	warningWords  = []string{"pending", "delayed", "waiting", "in review", "tentative", "partial"}
)

// StyleFor returns the style for an annotated segment. The status category is
// sub-classified by a case-insensitive keyword match against the segment text;
// every other category is a plain table lookup.
func StyleFor(category Category, text string) Style {
	if category == CategoryStatus {
		return statusToneStyles[StatusTone(text)]
	}
	if style, ok := categoryStyles[category]; ok {
		return style
	}
	return categoryStyles[CategoryGeneral]
}

// StatusTone classifies status text into a tone. Negative words are checked
// first so that mixed phrases ("pending, now blocked") read as negative.
func StatusTone(text string) Tone {
	lower := strings.ToLower(text)
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			return ToneNegative
		}
	}
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			return TonePositive
		}
	}
	for _, w := range warningWords {
		if strings.Contains(lower, w) {
			return ToneWarning
		}
	}
	return ToneNeutral
}
