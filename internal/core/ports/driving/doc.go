// Package driving defines the interfaces that external actors use to
// call INTO the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI and TUI adapters depend on these interfaces, and core
// services implement them.
//
//   - SelectionService: Chooses which chunk to present next
//   - ReviewService: Records review submissions
//   - StatsService: Read-only aggregate statistics
//
// Single-row results use a nil pointer for "not found"; errors are
// reserved for invalid calls and store failures.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
