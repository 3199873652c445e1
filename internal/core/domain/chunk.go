package domain

// Chunk is one contiguous span of text extracted from a source document
// by an upstream chunking run. Chunks are immutable once imported.
type Chunk struct {
	// UUID is the unique identifier for the chunk.
	UUID string

	// Source identifies the document the chunk was extracted from
	// (typically a file path).
	Source string

	// ChunkNumber is the sequence position within the source document.
	// It is unique per (source, chunking run), not globally.
	ChunkNumber int

	// ChunkingRunID identifies the extraction run that produced the chunk.
	ChunkingRunID string

	// Text is the body content of the chunk.
	Text string

	// Metadata contains pipeline-specific key-value pairs
	// (well names, diagram flags, page numbers).
	Metadata map[string]any
}

// ChunkRef is the identifying projection of a chunk used by coverage
// bookkeeping, where fetching full text for every row would be wasteful.
type ChunkRef struct {
	// UUID is the unique identifier for the chunk.
	UUID string

	// Source identifies the chunk's document.
	Source string

	// ChunkNumber is the sequence position within the source.
	ChunkNumber int
}

// Filters is a set of column→value equality predicates combined with
// AND semantics. The run scope is a Filters value applied to every
// chunk-catalog query.
type Filters map[string]string

// Merge returns a new Filters combining the receiver with extra
// predicates. Keys in extra win on collision.
func (f Filters) Merge(extra Filters) Filters {
	if len(f) == 0 && len(extra) == 0 {
		return nil
	}
	merged := make(Filters, len(f)+len(extra))
	for col, val := range f {
		merged[col] = val
	}
	for col, val := range extra {
		merged[col] = val
	}
	return merged
}

// Direction selects which neighbour of a chunk to load.
type Direction string

// Available directions.
const (
	// DirectionNext targets the chunk at ChunkNumber+1.
	DirectionNext Direction = "next"

	// DirectionPrev targets the chunk at ChunkNumber-1.
	DirectionPrev Direction = "prev"
)

// IsValid returns true if the direction is recognised.
func (d Direction) IsValid() bool {
	switch d {
	case DirectionNext, DirectionPrev:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d Direction) String() string {
	return string(d)
}

// Coverage is the fraction of a chunk set that has at least one review.
// Defined as 0 for an empty set.
func Coverage(total, reviewed int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(reviewed) / float64(total)
}
