// Package selection validates user selections against the text they were made
// in.
//
// A recorded phrase is always non-blank, a literal contiguous substring of the
// text, and no longer than the tracker's maximum in its unit. Longer
// selections are rejected outright rather than truncated.
package selection

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// DefaultMaxLength applies when a tracker is configured with a non-positive
// maximum.
const DefaultMaxLength = 40

// Unit is the measure applied to MaxLength.
type Unit string

const (
	// Characters counts user-perceived characters (grapheme clusters).
	Characters Unit = "characters"
	// Words counts whitespace-separated fields.
	Words Unit = "words"
)

// ParseUnit maps a configuration value onto a Unit.
func ParseUnit(value string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "char", "chars", string(Characters):
		return Characters, nil
	case "word", string(Words):
		return Words, nil
	default:
		return "", fmt.Errorf("unknown selection unit %q", value)
	}
}

var (
	ErrEmptySelection = errors.New("selection is empty")
	ErrNotInText      = errors.New("selection does not occur in the current text")
	ErrTooLong        = errors.New("selection exceeds the maximum length")
	ErrBadSpan        = errors.New("selection span is out of range")
)

// State is the validated selection owned by an article.
type State struct {
	Phrase    string
	MaxLength int
}

// HasPhrase reports whether a phrase is currently selected.
func (s State) HasPhrase() bool {
	return s.Phrase != ""
}

// Span is a half-open byte range into the text.
type Span struct {
	Start int
	End   int
}

// Tracker applies selections. The zero value selects up to DefaultMaxLength
// characters.
type Tracker struct {
	MaxLength int
	Unit      Unit
}

// Empty returns the state with no phrase selected.
func (t Tracker) Empty() State {
	return State{MaxLength: t.maxLength()}
}

// Apply validates raw against text and returns the resulting state. Rejected
// selections produce a state without a phrase.
func (t Tracker) Apply(text, raw string) State {
	state, _ := t.Explain(text, raw)
	return state
}

// ApplySpan applies the selection text[span.Start:span.End].
func (t Tracker) ApplySpan(text string, span Span) State {
	state, _ := t.ExplainSpan(text, span)
	return state
}

// Explain is Apply but also reports why a selection was rejected.
func (t Tracker) Explain(text, raw string) (State, error) {
	state := t.Empty()
	if strings.TrimSpace(raw) == "" {
		return state, ErrEmptySelection
	}
	if !strings.Contains(text, raw) {
		return state, ErrNotInText
	}
	phrase := strings.TrimSpace(raw)
	if t.Measure(phrase) > state.MaxLength {
		return state, ErrTooLong
	}
	state.Phrase = phrase
	return state, nil
}

// ExplainSpan is ApplySpan but also reports why a span was rejected.
func (t Tracker) ExplainSpan(text string, span Span) (State, error) {
	if span.Start < 0 || span.End < span.Start || span.End > len(text) {
		return t.Empty(), ErrBadSpan
	}
	if !onRuneBoundary(text, span.Start) || !onRuneBoundary(text, span.End) {
		return t.Empty(), ErrBadSpan
	}
	return t.Explain(text, text[span.Start:span.End])
}

// Measure returns the length of s in the tracker's unit.
func (t Tracker) Measure(s string) int {
	if t.Unit == Words {
		return len(strings.Fields(s))
	}
	return uniseg.GraphemeClusterCount(s)
}

func (t Tracker) maxLength() int {
	if t.MaxLength <= 0 {
		return DefaultMaxLength
	}
	return t.MaxLength
}

func onRuneBoundary(text string, offset int) bool {
	return offset == len(text) || utf8.RuneStart(text[offset])
}
