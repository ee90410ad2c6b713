package tui

import "github.com/pitsorgalla/Wortify/internal/app"

type action int

const (
	actionNone action = iota
	actionMoveWord
	actionExtend
	actionPrompt
	actionDefine
	actionClear
	actionScroll
	actionRefresh
	actionHelp
	actionQuit
)

// commandAvailable reports whether a in the current state would do anything.
func (m *model) commandAvailable(a action) bool {
	ready, isReady := m.machine.State().(app.Ready)
	switch a {
	case actionMoveWord, actionExtend, actionPrompt, actionScroll:
		return isReady && len(m.tokens) > 0
	case actionDefine, actionClear:
		return isReady && ready.Article.Selection.HasPhrase()
	case actionRefresh, actionHelp, actionQuit:
		return true
	default:
		return false
	}
}
