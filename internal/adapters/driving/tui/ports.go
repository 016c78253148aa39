// Package tui provides an interactive terminal interface for asking
// questions and browsing retrieved chunks.
package tui

import (
	"github.com/custodia-labs/verdict/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI calls into.
type Ports struct {
	// Answer produces grounded answers.
	Answer driving.AnswerService

	// Retrieval finds chunks without generating an answer.
	Retrieval driving.RetrievalService

	// TopK is the number of chunks requested per query. Zero means the
	// default.
	TopK int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
