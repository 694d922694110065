package mcp

import (
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Ask answers questions. Required.
	Ask driving.AskService

	// Documents lists and inspects the corpus. Optional.
	Documents driving.DocumentService

	// Ingest adds local files to the corpus. Optional; the ingest_file
	// tool is only registered when set.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
