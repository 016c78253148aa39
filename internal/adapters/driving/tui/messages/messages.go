// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/verdict/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk takes a question and shows the answer with its sources.
	ViewAsk
	// ViewRetrieve lists the chunks closest to a query.
	ViewRetrieve
	// ViewChunk shows a single chunk in full.
	ViewChunk
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewRetrieve:
		return "retrieve"
	case ViewChunk:
		return "chunk"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// AnswerReceived carries the outcome of an ask.
type AnswerReceived struct {
	Query  string
	Answer *domain.Answer
	Err    error
}

// RetrievalCompleted carries the outcome of a retrieve.
type RetrievalCompleted struct {
	Query   string
	Results []domain.RetrievedChunk
	Err     error
}

// ChunkSelected opens a chunk. Back is the view to return to.
type ChunkSelected struct {
	Chunk domain.RetrievedChunk
	Back  ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
