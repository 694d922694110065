// Package mcp exposes question answering and the document corpus to AI
// assistants over the Model Context Protocol.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
