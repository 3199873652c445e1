// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ChunkStore: Chunk catalog reads (counts, paged projections, lookups)
//   - ReviewStore: Review log reads and append-only inserts
//   - ScopeProvider: The current run scope, consulted per operation
//   - ConfigStore: Application configuration
//
// # Storage Contract
//
// Every store call is a single attempt: transport and query failures
// propagate to the caller un-retried. Paged reads use a fixed window
// starting at offset 0, advancing by the window size, terminating on
// the first short or empty page. No cross-page ordering is required
// beyond a consistent snapshot for a fixed filter set.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
