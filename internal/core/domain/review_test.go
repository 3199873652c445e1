package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTriBool_Strings(t *testing.T) {
	tests := []struct {
		input string
		want  TriBool
	}{
		{"yes", TriTrue},
		{"Yes", TriTrue},
		{"YES", TriTrue},
		{"y", TriTrue},
		{"true", TriTrue},
		{"True", TriTrue},
		{"1", TriTrue},
		{"t", TriTrue},
		{"  yes  ", TriTrue},
		{"no", TriFalse},
		{"No", TriFalse},
		{"false", TriFalse},
		{"0", TriFalse},
		{"", TriFalse},
		{"maybe", TriFalse},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTriBool(tt.input), "input %q", tt.input)
	}
}

func TestParseTriBool_Booleans(t *testing.T) {
	assert.Equal(t, TriTrue, ParseTriBool(true))
	assert.Equal(t, TriFalse, ParseTriBool(false))

	// String "Yes" and bool true normalise identically
	assert.Equal(t, ParseTriBool(true), ParseTriBool("Yes"))
}

func TestParseTriBool_Absent(t *testing.T) {
	assert.Equal(t, TriUnknown, ParseTriBool(nil))

	var p *bool
	assert.Equal(t, TriUnknown, ParseTriBool(p))

	v := true
	assert.Equal(t, TriTrue, ParseTriBool(&v))
}

func TestTriBool_Bool(t *testing.T) {
	value, ok := TriTrue.Bool()
	assert.True(t, value)
	assert.True(t, ok)

	value, ok = TriFalse.Bool()
	assert.False(t, value)
	assert.True(t, ok)

	_, ok = TriUnknown.Bool()
	assert.False(t, ok)
}

func TestTriBool_String(t *testing.T) {
	assert.Equal(t, "yes", TriTrue.String())
	assert.Equal(t, "no", TriFalse.String())
	assert.Equal(t, "", TriUnknown.String())
}

func TestFormOptions_NonEmpty(t *testing.T) {
	assert.NotEmpty(t, ReviewerOptions())
	assert.Len(t, ChunkSizeOptions(), 3)
	assert.Len(t, WellAssignmentOptions(), 4)
	assert.Len(t, ChunkInfoOptions(), 3)
	assert.Len(t, WellDiagramOptions(), 2)
}
