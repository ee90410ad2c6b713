package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pitsorgalla/Wortify/internal/selection"
)

type pageLayout struct {
	windowWidth      int
	windowHeight     int
	viewportWidth    int
	viewportHeight   int
	definitionHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:    80,
		viewportHeight:   20,
		definitionHeight: definitionPanelHeight,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.definitionHeight = definitionPanelHeight
	if height < compactWindowHeight {
		l.definitionHeight = 2
	}
	usable := height - layoutChrome - l.definitionHeight
	if usable < minViewportHeight {
		usable = minViewportHeight
	}
	l.viewportHeight = usable
}

// token is one whitespace-delimited word of the article body, or a line break.
type token struct {
	text      string
	full      selection.Span
	core      selection.Span
	lineBreak bool
}

// selectable reports whether the token can carry the word cursor.
func (t token) selectable() bool {
	return !t.lineBreak && t.core.End > t.core.Start
}

// tokenize splits body into words with byte spans. core trims leading and
// trailing punctuation so "mammals." selects "mammals".
func tokenize(body string) []token {
	var tokens []token
	offset := 0
	for i, line := range strings.Split(body, "\n") {
		if i > 0 {
			tokens = append(tokens, token{lineBreak: true})
		}
		pos := 0
		for pos < len(line) {
			r, size := utf8.DecodeRuneInString(line[pos:])
			if unicode.IsSpace(r) {
				pos += size
				continue
			}
			start := pos
			for pos < len(line) {
				r, size = utf8.DecodeRuneInString(line[pos:])
				if unicode.IsSpace(r) {
					break
				}
				pos += size
			}
			text := line[start:pos]
			coreStart, coreEnd := trimPunctuation(text)
			tokens = append(tokens, token{
				text: text,
				full: selection.Span{Start: offset + start, End: offset + pos},
				core: selection.Span{Start: offset + start + coreStart, End: offset + start + coreEnd},
			})
		}
		offset += len(line) + 1
	}
	return tokens
}

func trimPunctuation(word string) (int, int) {
	isEdge := func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }
	left := len(word) - len(strings.TrimLeftFunc(word, isEdge))
	right := len(strings.TrimRightFunc(word, isEdge))
	if left >= right {
		return 0, 0
	}
	return left, right
}

// wordLayout is the rendered body plus the line each token landed on.
type wordLayout struct {
	lines     []string
	tokenLine []int
}

// layoutTokens wraps tokens greedily to width display cells. style, when
// non-nil, may decorate each word.
func layoutTokens(tokens []token, width int, style func(idx int, t token) (lipgloss.Style, bool)) wordLayout {
	if width < 1 {
		width = 1
	}
	out := wordLayout{tokenLine: make([]int, len(tokens))}
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		out.lines = append(out.lines, line.String())
		line.Reset()
		lineWidth = 0
	}
	for idx, tok := range tokens {
		if tok.lineBreak {
			out.tokenLine[idx] = len(out.lines)
			flush()
			continue
		}
		w := runewidth.StringWidth(tok.text)
		if lineWidth > 0 && lineWidth+1+w > width {
			flush()
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		out.tokenLine[idx] = len(out.lines)
		rendered := tok.text
		if style != nil {
			if s, ok := style(idx, tok); ok {
				rendered = s.Render(tok.text)
			}
		}
		line.WriteString(rendered)
		lineWidth += w
	}
	if lineWidth > 0 || len(out.lines) == 0 {
		flush()
	}
	return out
}

func (l wordLayout) String() string {
	return strings.Join(l.lines, "\n")
}

// nextSelectable walks from idx in direction step until it finds a word.
func nextSelectable(tokens []token, idx, step int) int {
	for i := idx + step; i >= 0 && i < len(tokens); i += step {
		if tokens[i].selectable() {
			return i
		}
	}
	return -1
}

// spanBetween covers the cores of the tokens from a to b, in either order.
func spanBetween(tokens []token, a, b int) selection.Span {
	if a > b {
		a, b = b, a
	}
	return selection.Span{Start: tokens[a].core.Start, End: tokens[b].core.End}
}

func overlaps(t token, span selection.Span) bool {
	if span.End <= span.Start || !t.selectable() {
		return false
	}
	return t.core.Start < span.End && span.Start < t.core.End
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= limit {
		return value
	}
	return strings.TrimSpace(runewidth.Truncate(value, limit-1, "")) + "…"
}
