package tui

type interactionMode int

const (
	modeNormal interactionMode = iota
	// modeExtend grows the selection from an anchor word as the cursor moves.
	modeExtend
	// modeInput reads a phrase from the prompt.
	modeInput
)

const heroTagline = "Read something random. Look up anything."

const (
	minViewportWidth          = 40
	minViewportHeight         = 5
	viewportHorizontalPadding = 4
	definitionPanelHeight     = 4
	compactWindowHeight       = 24
	layoutChrome              = 10
)

const promptPlaceholder = "Type a phrase from the article…"

type keyHint struct {
	Key         string
	Description string
	Action      action
}

var keyHints = []keyHint{
	{"←/→", "Move word", actionMoveWord},
	{"v", "Extend selection", actionExtend},
	{"/", "Type a phrase", actionPrompt},
	{"enter", "Define", actionDefine},
	{"x", "Clear selection", actionClear},
	{"↑/↓", "Scroll", actionScroll},
	{"r", "New article", actionRefresh},
	{"?", "Toggle help", actionHelp},
	{"q", "Quit", actionQuit},
}
