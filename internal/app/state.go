package app

import (
	"github.com/pitsorgalla/Wortify/internal/selection"
)

// ViewState is one of Loading, Failure or Ready. The machine replaces its
// state on every transition; values handed out by State are never mutated.
type ViewState interface {
	stateName() string
}

// Loading means an article cycle is in flight.
type Loading struct{}

// Failure carries the article-source error that ended the last cycle.
type Failure struct {
	Err error
}

// Ready holds the displayed article.
type Ready struct {
	Article Article
}

func (Loading) stateName() string { return "loading" }
func (Failure) stateName() string { return "failure" }
func (Ready) stateName() string   { return "ready" }

// StateName returns a short label for logs and status lines.
func StateName(s ViewState) string {
	if s == nil {
		return "none"
	}
	return s.stateName()
}

// Article is a fetched article together with its selection and definition.
type Article struct {
	PageID    int
	Title     string
	Body      string
	Selection selection.State
	// Definition is empty until a lookup for the current phrase completes.
	// Failed lookups store dictionary.ErrorText.
	Definition        string
	DefinitionPending bool
}

// HasDefinition reports whether a definition (or the error sentinel) is set.
func (a Article) HasDefinition() bool {
	return a.Definition != ""
}
