// Package migrations holds the versioned SQLite schema for documents,
// chunks and feedback. Files are applied in name order.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files.
//
//go:embed *.sql
var FS embed.FS
