// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// SearchCompleted carries retrieval results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.RetrievalResult
	Err     error
}

// AnswerReceived carries the assistant's reply to a question.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// StatsLoaded carries store statistics.
type StatsLoaded struct {
	Stats  *domain.CollectionStats
	Counts []domain.CategoryCount
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the conversational assistant.
	ViewChat
	// ViewSearch is the excerpt search view.
	ViewSearch
	// ViewStats shows chunk counts per category.
	ViewStats
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewSearch:
		return "search"
	case ViewStats:
		return "stats"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
