// Package sqlite provides the default SQLite-based implementation of the
// document and feedback stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A single database connection backs:
//
//   - DocumentStore: Document and chunk persistence
//   - FeedbackStore: Answer ratings
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Chunks reference their document with ON DELETE CASCADE,
// so deleting a document removes its chunks in the same statement.
//
// Embeddings are stored as little-endian float32 BLOBs.
//
// # Data Location
//
// By default, the database is stored at ~/.codeaid/data/codeaid.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
