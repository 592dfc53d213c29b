package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScales(t *testing.T) {
	tests := []struct {
		name  string
		scale Scale
		code  string
		want  float64
		valid bool
	}{
		{"present", PresenceScale, "P", 1, true},
		{"half present", PresenceScale, "1/2", 0.5, true},
		{"absent", PresenceScale, "A", 0, true},
		{"padded code", PresenceScale, " P ", 1, true},
		{"lower case is unknown", PresenceScale, "p", 0, false},
		{"blank presence", PresenceScale, "", 0, false},
		{"homework done", HomeworkScale, "√", 1, true},
		{"homework partial", HomeworkScale, "+/-", 0.5, true},
		{"homework missing", HomeworkScale, "N", 0, true},
		{"homework unknown", HomeworkScale, "X", 0, false},
		{"participation good", ParticipationScale, ":-D", 1, true},
		{"participation neutral", ParticipationScale, ":-/", 0.5, true},
		{"participation bad", ParticipationScale, ":-&", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.scale.Score(tt.code)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.want, got.Float64)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"8,5", 8.5, true},
		{"7.25", 7.25, true},
		{" 10 ", 10, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFoldText(t *testing.T) {
	assert.Equal(t, "pre-class", foldText("  Pré-Class "))
	assert.Equal(t, "marco", foldText("MARÇO"))
}
