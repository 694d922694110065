// Package domain defines the core entities for codeaid.
//
// This package is the innermost layer of the hexagonal architecture.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded file and its metadata
//   - Chunk: An embedded window of a document's extracted text
//   - ScoredChunk: A chunk ranked against a query vector
//   - Answer: The result of one question
//   - Feedback: A user rating of an answer
//   - Error: The typed failure returned at service boundaries
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
