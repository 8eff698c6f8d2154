package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTone(t *testing.T) {
	cases := []struct {
		text string
		want Tone
	}{
		{"Completed ahead of schedule", TonePositive},
		{"approved by finance", TonePositive},
		{"BLOCKED on vendor", ToneNegative},
		{"offer rejected", ToneNegative},
		{"pending manager sign-off", ToneWarning},
		{"delayed to next sprint", ToneWarning},
		{"pending, now blocked", ToneNegative}, // negative outranks warning
		{"somewhere in the middle", ToneNeutral},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusTone(tc.text), "text: %q", tc.text)
	}
}

func TestStyleFor(t *testing.T) {
	risk := StyleFor(CategoryRisk, "at risk")
	assert.Equal(t, "bold", risk.Weight)

	// Status styles follow the tone of the text, not a fixed table entry.
	done := StyleFor(CategoryStatus, "done")
	blocked := StyleFor(CategoryStatus, "blocked")
	assert.NotEqual(t, done.Color, blocked.Color)

	// Unknown categories fall back to the general style.
	assert.Equal(t, categoryStyles[CategoryGeneral], StyleFor(Category("mystery"), "x"))
}
