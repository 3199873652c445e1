package domain

import (
	"strings"
	"time"
)

// Review is one reviewer's assessment of one chunk. Reviews are
// append-only: they are never mutated or deleted, and a chunk may
// accumulate any number of them.
type Review struct {
	// ID is the unique identifier for the review row.
	ID string

	// ChunkUUID references the reviewed chunk. It is the only field
	// the recorder requires.
	ChunkUUID string

	// Name is the reviewer identity.
	Name string

	// ChunkSize is the reviewer's judgment of the chunk's length.
	ChunkSize string

	// ChunkInfo is the reviewer's judgment of information completeness.
	ChunkInfo string

	// HasWellDiagram records whether the chunk contains a well diagram.
	HasWellDiagram TriBool

	// Comment is free-text feedback about this chunk.
	Comment string

	// Observation is free-text general feedback.
	Observation string

	// WellAssignment holds zero or more well-assignment judgments.
	WellAssignment []string

	// InsertedAt is assigned by the store on insert. Callers never
	// supply it.
	InsertedAt time.Time
}

// TriBool is a three-valued boolean: true, false, or absent.
// Reviewer input arrives both as booleans and as human-entered strings,
// so absence must survive normalisation rather than collapsing to false.
type TriBool int

// TriBool values.
const (
	// TriUnknown means the reviewer gave no answer.
	TriUnknown TriBool = iota

	// TriFalse is an explicit "no".
	TriFalse

	// TriTrue is an explicit "yes".
	TriTrue
)

// trueTokens are the accepted affirmative string forms, matched
// case-insensitively after trimming.
var trueTokens = map[string]bool{
	"yes": true, "y": true, "true": true, "1": true, "t": true,
}

// ParseTriBool normalises heterogeneous boolean-like input. Booleans
// pass through, nil stays absent, and strings map via trueTokens with
// everything unrecognised treated as false.
func ParseTriBool(value any) TriBool {
	switch v := value.(type) {
	case nil:
		return TriUnknown
	case TriBool:
		return v
	case bool:
		if v {
			return TriTrue
		}
		return TriFalse
	case *bool:
		if v == nil {
			return TriUnknown
		}
		if *v {
			return TriTrue
		}
		return TriFalse
	case string:
		if trueTokens[strings.ToLower(strings.TrimSpace(v))] {
			return TriTrue
		}
		return TriFalse
	default:
		return TriFalse
	}
}

// Bool returns the underlying boolean and whether a value is present.
func (t TriBool) Bool() (value, ok bool) {
	switch t {
	case TriTrue:
		return true, true
	case TriFalse:
		return false, true
	default:
		return false, false
	}
}

// String returns the string representation.
func (t TriBool) String() string {
	switch t {
	case TriTrue:
		return "yes"
	case TriFalse:
		return "no"
	default:
		return ""
	}
}

// Form option sets. These are the single source of truth for the review
// form; the recorder itself only requires ChunkUUID.

// ReviewerOptions lists the reviewers the form offers.
func ReviewerOptions() []string {
	return []string{"Eva", "Gosia", "Krzysiek", "Tomek", "Michał", "Damian"}
}

// ChunkSizeOptions lists the chunk-size judgments.
func ChunkSizeOptions() []string {
	return []string{"right", "too small", "too big"}
}

// WellAssignmentOptions lists the well-assignment judgments.
func WellAssignmentOptions() []string {
	return []string{
		"correct well is assigned",
		"the assigned well is not mentioned in the text",
		"the well mentioned in the text is not assigned",
		"assigned well is not an actuall well name",
	}
}

// ChunkInfoOptions lists the information-completeness judgments.
func ChunkInfoOptions() []string {
	return []string{"processed correctly", "missing information", "hallucinated"}
}

// WellDiagramOptions lists the diagram answers offered by the form.
func WellDiagramOptions() []string {
	return []string{"Yes", "No"}
}
