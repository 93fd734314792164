// Package domain defines the core business entities for litsum.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A paper's extracted text, keyed by filename
//   - Chunk: A token-bounded slice of a document
//   - Question: A named, fixed prompt asked of every chunk
//   - CorrelationKey: The identifier tying a batch answer back to its request
//   - Job: A remote asynchronous batch job and its lifecycle
//   - SummaryRecord: One demultiplexed row per document
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
