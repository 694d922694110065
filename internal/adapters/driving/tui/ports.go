// Package tui provides an interactive terminal chat for asking questions
// about uploaded documents and browsing the corpus.
package tui

import (
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI calls.
type Ports struct {
	// Ask answers questions. Required.
	Ask driving.AskService

	// Documents lists, inspects and deletes documents.
	Documents driving.DocumentService

	// Feedback stores answer ratings.
	Feedback driving.FeedbackService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
