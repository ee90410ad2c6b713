package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/pitsorgalla/Wortify/internal/app"
	"github.com/pitsorgalla/Wortify/internal/selection"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Machine *app.Machine
	Logger  *logrus.Logger
	// DefinitionSource names the dictionary in the status bar.
	DefinitionSource string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	logger := config.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	if config.Machine == nil {
		config.Machine = app.New(app.Options{Logger: logger})
	}

	prompt := textinput.New()
	prompt.Placeholder = promptPlaceholder
	prompt.CharLimit = 200
	prompt.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return &model{
		config:        config,
		machine:       config.Machine,
		log:           logger.WithField("component", "tui"),
		jobs:          newJobBus(logger),
		jobStatus:     map[app.RequestKind]jobSnapshot{},
		layout:        newPageLayout(),
		mode:          modeNormal,
		prompt:        prompt,
		spinner:       spin,
		viewport:      vp,
		cursor:        -1,
		anchor:        -1,
		viewportDirty: true,
		infoMessage:   "Fetching a random article…",
	}
}

type model struct {
	config  Config
	machine *app.Machine
	log     *logrus.Entry
	jobs    *jobBus

	jobStatus map[app.RequestKind]jobSnapshot
	layout    pageLayout

	mode     interactionMode
	prompt   textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// body is the article text the tokens were built from.
	body      string
	tokens    []token
	tokenLine []int
	cursor    int
	anchor    int

	viewportDirty bool
	infoMessage   string
	errorMessage  string
	helpVisible   bool
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.startRequest(m.machine.Start()), m.spinner.Tick)
}

func (m *model) startRequest(req app.Request) tea.Cmd {
	m.log.WithFields(logrus.Fields{"kind": req.Kind, "generation": req.Generation}).Debug("issuing request")
	return m.jobs.Start(req)
}

func (m *model) busy() bool {
	switch state := m.machine.State().(type) {
	case app.Loading:
		return true
	case app.Ready:
		return state.Article.DefinitionPending
	default:
		return false
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if _, ok := m.machine.State().(app.Ready); ok {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.jobStatus[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.jobStatus[msg.Snapshot.Kind] = msg.Snapshot
		return m, m.handleEvent(msg.Event)
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.prompt.Width = m.layout.viewportWidth - 4
		m.markViewportDirty()
		return m, nil
	}
	return m, nil
}

func (m *model) handleEvent(ev app.Event) tea.Cmd {
	before := m.machine.State()
	follow, ok := m.machine.Handle(ev)
	m.syncArticle()
	var cmd tea.Cmd
	if ok {
		cmd = m.startRequest(follow)
	}
	switch state := m.machine.State().(type) {
	case app.Failure:
		if _, was := before.(app.Failure); !was {
			m.errorMessage = state.Err.Error()
			m.infoMessage = "Press r to try another article."
		}
	case app.Ready:
		if _, was := before.(app.Loading); was {
			m.errorMessage = ""
			m.infoMessage = fmt.Sprintf("Loaded %s. Use ←/→ to pick a word.", state.Article.Title)
		}
		if ev, isDef := ev.(app.DefinitionEvent); isDef && ev.Phrase == state.Article.Selection.Phrase && !state.Article.DefinitionPending {
			if ev.Err != nil {
				m.infoMessage = fmt.Sprintf("Lookup failed: %v", ev.Err)
			} else {
				m.infoMessage = fmt.Sprintf("Defined %q.", ev.Phrase)
			}
		}
	}
	return cmd
}

// syncArticle rebuilds tokens when the displayed article changes.
func (m *model) syncArticle() {
	ready, ok := m.machine.State().(app.Ready)
	if !ok {
		if m.body != "" {
			m.body = ""
			m.tokens = nil
			m.tokenLine = nil
			m.resetCursor()
		}
		m.markViewportDirty()
		return
	}
	if ready.Article.Body != m.body || m.tokens == nil {
		m.body = ready.Article.Body
		m.tokens = tokenize(m.body)
		m.resetCursor()
		m.viewport.SetYOffset(0)
	}
	m.markViewportDirty()
}

func (m *model) resetCursor() {
	m.cursor = -1
	m.anchor = -1
	if m.mode == modeExtend {
		m.mode = modeNormal
	}
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.mode == modeInput {
		return m.handlePromptKey(key)
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.mode == modeExtend {
			m.mode = modeNormal
			m.anchor = -1
			m.infoMessage = "Extend mode off."
			m.markViewportDirty()
			return m, nil
		}
		return m, tea.Quit
	case "r":
		return m, m.refresh()
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	}

	if _, ok := m.machine.State().(app.Ready); ok {
		return m.handleReadyKey(key)
	}
	return m, nil
}

func (m *model) refresh() tea.Cmd {
	req := m.machine.Refresh()
	m.syncArticle()
	m.mode = modeNormal
	m.errorMessage = ""
	m.infoMessage = "Fetching a random article…"
	return tea.Batch(m.startRequest(req), m.spinner.Tick)
}

func (m *model) handleReadyKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "v":
		m.toggleExtend()
	case "/":
		m.mode = modeInput
		m.prompt.SetValue("")
		m.prompt.Focus()
		m.infoMessage = "Enter selects the phrase, Esc cancels."
		return m, textinput.Blink
	case "x":
		m.machine.ClearSelection()
		m.mode = modeNormal
		m.anchor = -1
		m.errorMessage = ""
		m.infoMessage = "Selection cleared."
		m.markViewportDirty()
	case "enter", "d":
		return m, m.requestDefinition()
	case "g", "home":
		m.viewport.GotoTop()
	case "G", "end":
		m.viewport.GotoBottom()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	}
	return m, nil
}

func (m *model) handlePromptKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.closePrompt()
		m.infoMessage = "Phrase entry canceled."
		return m, nil
	case tea.KeyEnter:
		value := m.prompt.Value()
		m.closePrompt()
		m.applySelection(m.machine.Select(value))
		m.cursor = -1
		m.anchor = -1
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(key)
	return m, cmd
}

func (m *model) closePrompt() {
	m.prompt.SetValue("")
	m.prompt.Blur()
	m.mode = modeNormal
}

func (m *model) moveCursor(step int) {
	if len(m.tokens) == 0 {
		return
	}
	next := nextSelectable(m.tokens, m.cursor, step)
	if next < 0 {
		if m.cursor >= 0 {
			return
		}
		// No word yet and moving left: start from the end.
		next = nextSelectable(m.tokens, len(m.tokens), -1)
		if next < 0 {
			return
		}
	}
	m.cursor = next
	anchor := m.cursor
	if m.mode == modeExtend && m.anchor >= 0 {
		anchor = m.anchor
	}
	m.applySelection(m.machine.SelectSpan(spanBetween(m.tokens, anchor, m.cursor)))
}

func (m *model) toggleExtend() {
	if m.mode == modeExtend {
		m.mode = modeNormal
		m.anchor = -1
		m.infoMessage = "Extend mode off."
		return
	}
	if m.cursor < 0 {
		m.moveCursor(1)
	}
	if m.cursor < 0 {
		return
	}
	m.mode = modeExtend
	m.anchor = m.cursor
	m.infoMessage = "Extend mode: ←/→ grow the selection, Esc to stop."
	m.markViewportDirty()
}

func (m *model) applySelection(state selection.State, err error) {
	m.markViewportDirty()
	switch {
	case err == nil:
		m.errorMessage = ""
		if state.HasPhrase() {
			m.infoMessage = fmt.Sprintf("Selected %q. Press enter to define.", previewText(state.Phrase, 40))
		}
	case errors.Is(err, selection.ErrTooLong):
		tracker := m.machine.Tracker()
		m.errorMessage = fmt.Sprintf("Selection longer than %d %s.", state.MaxLength, trackerUnit(tracker))
	case errors.Is(err, selection.ErrNotInText):
		m.errorMessage = "That phrase does not appear in the article."
	case errors.Is(err, selection.ErrEmptySelection):
		m.errorMessage = ""
		m.infoMessage = "Selection cleared."
	default:
		m.errorMessage = err.Error()
	}
}

func (m *model) requestDefinition() tea.Cmd {
	req, err := m.machine.RequestDefinition()
	if err != nil {
		if errors.Is(err, selection.ErrEmptySelection) {
			m.infoMessage = "Select a word first."
			return nil
		}
		m.errorMessage = err.Error()
		return nil
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Looking up %q…", previewText(req.Phrase, 40))
	m.markViewportDirty()
	return tea.Batch(m.startRequest(req), m.spinner.Tick)
}

func trackerUnit(t selection.Tracker) string {
	if t.Unit == selection.Words {
		return "words"
	}
	return "characters"
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

// highlightSpan locates the selected phrase in the body. Word-cursor
// selections are found near the cursor; typed phrases at their first match.
func (m *model) highlightSpan(phrase string) selection.Span {
	if phrase == "" || m.body == "" {
		return selection.Span{}
	}
	if m.cursor >= 0 && m.cursor < len(m.tokens) {
		anchor := m.cursor
		if m.mode == modeExtend && m.anchor >= 0 {
			anchor = m.anchor
		}
		span := spanBetween(m.tokens, anchor, m.cursor)
		if strings.TrimSpace(m.body[span.Start:span.End]) == phrase {
			return span
		}
	}
	idx := strings.Index(m.body, phrase)
	if idx < 0 {
		return selection.Span{}
	}
	return selection.Span{Start: idx, End: idx + len(phrase)}
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false
	ready, ok := m.machine.State().(app.Ready)
	if !ok {
		m.viewport.SetContent("")
		return
	}
	span := m.highlightSpan(ready.Article.Selection.Phrase)
	style := func(idx int, t token) (lipgloss.Style, bool) {
		selected := overlaps(t, span)
		switch {
		case idx == m.cursor && selected:
			return selectedWordStyle.Copy().Inherit(cursorWordStyle), true
		case idx == m.cursor:
			return cursorWordStyle, true
		case selected:
			return selectedWordStyle, true
		}
		return lipgloss.Style{}, false
	}
	layout := layoutTokens(m.tokens, m.wrapWidth(2), style)
	m.tokenLine = layout.tokenLine
	m.viewport.SetContent(layout.String())
	m.ensureCursorVisible()
}

func (m *model) ensureCursorVisible() {
	if m.cursor < 0 || m.cursor >= len(m.tokenLine) {
		return
	}
	line := m.tokenLine[m.cursor]
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}
