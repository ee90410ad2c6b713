package app

import (
	"context"
	"time"

	"github.com/pitsorgalla/Wortify/internal/wiki"
)

// RequestKind names the remote call a Request performs.
type RequestKind string

const (
	RequestRandom     RequestKind = "random"
	RequestArticle    RequestKind = "article"
	RequestDefinition RequestKind = "definition"
)

// Request is one remote call issued by the machine. Hosts execute it off the
// event loop with Run and feed the resulting Event back through Handle.
type Request struct {
	Kind       RequestKind
	Generation uint64
	Ref        wiki.RandomRef
	Phrase     string
	Timeout    time.Duration

	run func(ctx context.Context) Event
}

// Run performs the call. It never returns nil; failures travel inside the
// Event.
func (r Request) Run(ctx context.Context) Event {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return r.run(ctx)
}

// Event is the outcome of a Request.
type Event interface {
	eventGeneration() uint64
}

// RandomRefEvent answers a RequestRandom.
type RandomRefEvent struct {
	Generation uint64
	Ref        wiki.RandomRef
	Err        error
}

// ArticleEvent answers a RequestArticle.
type ArticleEvent struct {
	Generation uint64
	Article    wiki.Article
	Err        error
}

// DefinitionEvent answers a RequestDefinition.
type DefinitionEvent struct {
	Generation uint64
	Phrase     string
	Text       string
	Err        error
}

func (e RandomRefEvent) eventGeneration() uint64  { return e.Generation }
func (e ArticleEvent) eventGeneration() uint64    { return e.Generation }
func (e DefinitionEvent) eventGeneration() uint64 { return e.Generation }

// Err extracts the error carried by ev, if any.
func Err(ev Event) error {
	switch ev := ev.(type) {
	case RandomRefEvent:
		return ev.Err
	case ArticleEvent:
		return ev.Err
	case DefinitionEvent:
		return ev.Err
	default:
		return nil
	}
}
