// Package domain defines the core business entities for chunkgrader.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A span of text produced by an upstream chunking run
//   - Review: One reviewer's assessment of one chunk
//   - Filters: Column→value equality predicates (the run scope)
//   - TriBool: Three-valued boolean for human-entered yes/no input
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
