// Package app implements the application state machine: it fetches a random
// article, tracks the user's selection within it and looks up definitions.
//
// The machine performs no I/O itself. Operations that need the network return
// a Request; the host runs it and hands the resulting Event to Handle. Every
// request carries the generation current when it was issued, and events from
// an older generation are dropped, so a refresh or a new selection supersedes
// whatever is still in flight.
package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pitsorgalla/Wortify/internal/dictionary"
	"github.com/pitsorgalla/Wortify/internal/selection"
	"github.com/pitsorgalla/Wortify/internal/wiki"
)

// ErrNotReady is returned by selection and definition operations while no
// article is displayed.
var ErrNotReady = errors.New("no article is displayed")

// ArticleSource yields random articles.
type ArticleSource interface {
	RandomArticle(ctx context.Context) (wiki.RandomRef, error)
	Article(ctx context.Context, ref wiki.RandomRef) (wiki.Article, error)
}

// DefinitionSource looks up a phrase.
type DefinitionSource interface {
	Define(ctx context.Context, phrase string) (string, error)
}

// Options wires a Machine.
type Options struct {
	Articles    ArticleSource
	Definitions DefinitionSource
	Tracker     selection.Tracker
	// ArticleTimeout bounds random-title and extract requests. Zero disables it.
	ArticleTimeout time.Duration
	// DefinitionTimeout bounds definition requests. Zero disables it.
	DefinitionTimeout time.Duration
	Logger            *logrus.Logger
}

// Machine owns the current ViewState. It is not safe for concurrent use; the
// host serialises calls.
type Machine struct {
	opts       Options
	state      ViewState
	generation uint64
	log        *logrus.Entry
}

// New returns a machine in Loading. Nothing is issued until Start.
func New(opts Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Machine{
		opts:  opts,
		state: Loading{},
		log:   logger.WithField("component", "machine"),
	}
}

// State returns the current view state.
func (m *Machine) State() ViewState {
	return m.state
}

// Generation returns the token that responses must carry to be applied.
func (m *Machine) Generation() uint64 {
	return m.generation
}

// Tracker returns the selection tracker in use.
func (m *Machine) Tracker() selection.Tracker {
	return m.opts.Tracker
}

// Start begins the first article cycle.
func (m *Machine) Start() Request {
	return m.beginCycle("start")
}

// Refresh discards the current article or failure and begins a new cycle.
// Responses to anything issued earlier become stale.
func (m *Machine) Refresh() Request {
	return m.beginCycle("refresh")
}

func (m *Machine) beginCycle(reason string) Request {
	m.transition(Loading{}, reason)
	gen := m.bump()
	articles := m.opts.Articles
	return Request{
		Kind:       RequestRandom,
		Generation: gen,
		Timeout:    m.opts.ArticleTimeout,
		run: func(ctx context.Context) Event {
			ref, err := articles.RandomArticle(ctx)
			return RandomRefEvent{Generation: gen, Ref: ref, Err: err}
		},
	}
}

func (m *Machine) issueArticle(ref wiki.RandomRef) Request {
	gen := m.bump()
	articles := m.opts.Articles
	return Request{
		Kind:       RequestArticle,
		Generation: gen,
		Ref:        ref,
		Timeout:    m.opts.ArticleTimeout,
		run: func(ctx context.Context) Event {
			article, err := articles.Article(ctx, ref)
			return ArticleEvent{Generation: gen, Article: article, Err: err}
		},
	}
}

// Select applies an opaque selected string to the displayed article. A
// rejected selection clears the phrase; the returned error says why it was
// rejected.
func (m *Machine) Select(raw string) (selection.State, error) {
	ready, ok := m.state.(Ready)
	if !ok {
		return selection.State{}, ErrNotReady
	}
	next, reason := m.opts.Tracker.Explain(ready.Article.Body, raw)
	m.applySelection(ready, next)
	return next, reason
}

// SelectSpan applies the byte span of the displayed body as the selection.
func (m *Machine) SelectSpan(span selection.Span) (selection.State, error) {
	ready, ok := m.state.(Ready)
	if !ok {
		return selection.State{}, ErrNotReady
	}
	next, reason := m.opts.Tracker.ExplainSpan(ready.Article.Body, span)
	m.applySelection(ready, next)
	return next, reason
}

// ClearSelection drops the phrase and any definition.
func (m *Machine) ClearSelection() {
	if ready, ok := m.state.(Ready); ok {
		m.applySelection(ready, m.opts.Tracker.Empty())
	}
}

func (m *Machine) applySelection(ready Ready, next selection.State) {
	if ready.Article.Selection == next {
		return
	}
	article := ready.Article
	article.Selection = next
	article.Definition = ""
	article.DefinitionPending = false
	// Any definition still in flight belongs to the old phrase.
	m.bump()
	m.transition(Ready{Article: article}, "selection")
}

// RequestDefinition issues a lookup for the selected phrase. Without a phrase
// it returns selection.ErrEmptySelection and nothing is sent.
func (m *Machine) RequestDefinition() (Request, error) {
	ready, ok := m.state.(Ready)
	if !ok {
		return Request{}, ErrNotReady
	}
	phrase := ready.Article.Selection.Phrase
	if !ready.Article.Selection.HasPhrase() {
		return Request{}, selection.ErrEmptySelection
	}
	article := ready.Article
	article.Definition = ""
	article.DefinitionPending = true
	m.transition(Ready{Article: article}, "definition requested")

	gen := m.bump()
	definitions := m.opts.Definitions
	return Request{
		Kind:       RequestDefinition,
		Generation: gen,
		Phrase:     phrase,
		Timeout:    m.opts.DefinitionTimeout,
		run: func(ctx context.Context) Event {
			if definitions == nil {
				return DefinitionEvent{Generation: gen, Phrase: phrase, Err: dictionary.ErrMissingCredentials}
			}
			text, err := definitions.Define(ctx, phrase)
			return DefinitionEvent{Generation: gen, Phrase: phrase, Text: text, Err: err}
		},
	}, nil
}

// Handle applies the outcome of a request. When the outcome calls for a
// follow-up request (a random title needs its article) it is returned with
// true. Stale events are dropped.
func (m *Machine) Handle(ev Event) (Request, bool) {
	if ev == nil {
		return Request{}, false
	}
	if gen := ev.eventGeneration(); gen != m.generation {
		m.log.WithFields(logrus.Fields{
			"event_generation": gen,
			"generation":       m.generation,
		}).Debug("dropping stale response")
		return Request{}, false
	}

	switch ev := ev.(type) {
	case RandomRefEvent:
		if _, ok := m.state.(Loading); !ok {
			return Request{}, false
		}
		if ev.Err != nil {
			m.transition(Failure{Err: ev.Err}, "random title failed")
			return Request{}, false
		}
		return m.issueArticle(ev.Ref), true
	case ArticleEvent:
		if _, ok := m.state.(Loading); !ok {
			return Request{}, false
		}
		if ev.Err != nil {
			m.transition(Failure{Err: ev.Err}, "article failed")
			return Request{}, false
		}
		m.transition(Ready{Article: Article{
			PageID:    ev.Article.PageID,
			Title:     ev.Article.Title,
			Body:      ev.Article.Extract,
			Selection: m.opts.Tracker.Empty(),
		}}, "article received")
	case DefinitionEvent:
		ready, ok := m.state.(Ready)
		if !ok || ready.Article.Selection.Phrase != ev.Phrase {
			return Request{}, false
		}
		article := ready.Article
		article.DefinitionPending = false
		if ev.Err != nil {
			m.log.WithError(ev.Err).WithField("phrase", ev.Phrase).Warn("definition lookup failed")
			article.Definition = dictionary.ErrorText
		} else {
			article.Definition = ev.Text
		}
		m.transition(Ready{Article: article}, "definition received")
	}
	return Request{}, false
}

func (m *Machine) bump() uint64 {
	m.generation++
	return m.generation
}

func (m *Machine) transition(next ViewState, reason string) {
	m.log.WithFields(logrus.Fields{
		"from":   StateName(m.state),
		"to":     StateName(next),
		"reason": reason,
	}).Debug("transition")
	m.state = next
}
