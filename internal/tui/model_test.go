package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pitsorgalla/Wortify/internal/app"
	"github.com/pitsorgalla/Wortify/internal/dictionary"
	"github.com/pitsorgalla/Wortify/internal/rest"
	"github.com/pitsorgalla/Wortify/internal/selection"
)

func readyArticle(t *testing.T, m *model) app.Article {
	t.Helper()
	ready, ok := m.machine.State().(app.Ready)
	if !ok {
		t.Fatalf("expected ready state, got %s", app.StateName(m.machine.State()))
	}
	return ready.Article
}

func TestInitLoadsArticle(t *testing.T) {
	m := newTestModel(t)
	if !strings.Contains(m.View(), "Fetching a random article") {
		t.Fatalf("loading view missing spinner text:\n%s", m.View())
	}

	pump(t, m, m.Init())

	article := readyArticle(t, m)
	if article.Title != "Dog" || article.Body != "Dogs are mammals." {
		t.Fatalf("unexpected article: %+v", article)
	}
	if article.Selection.HasPhrase() || article.HasDefinition() {
		t.Fatalf("fresh article should have no selection: %+v", article)
	}
	view := m.View()
	for _, want := range []string{"Dog", "Dogs are mammals.", "Selection 0/40 characters"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWordCursorSelectsAndDefines(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())

	for i := 0; i < 3; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	article := readyArticle(t, m)
	if article.Selection.Phrase != "mammals" {
		t.Fatalf("cursor selection = %q, want trailing punctuation trimmed", article.Selection.Phrase)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should start a definition job")
	}
	if !readyArticle(t, m).DefinitionPending {
		t.Fatal("definition should be pending before the job completes")
	}
	pump(t, m, cmd)

	article = readyArticle(t, m)
	if article.Definition != "warm-blooded vertebrate animals" || article.DefinitionPending {
		t.Fatalf("unexpected definition state: %+v", article)
	}
	if !strings.Contains(m.View(), "warm-blooded vertebrate animals") {
		t.Fatalf("definition not rendered:\n%s", m.View())
	}
}

func TestDefinitionFailureShowsErrorText(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	_, cmd := m.Update(keyRunes("d"))
	pump(t, m, cmd)

	article := readyArticle(t, m)
	if article.Selection.Phrase != "Dogs" || article.Definition != dictionary.ErrorText {
		t.Fatalf("unexpected article: %+v", article)
	}
	if !strings.Contains(m.infoMessage, "Lookup failed") {
		t.Fatalf("info message = %q", m.infoMessage)
	}
}

func TestDefineWithoutSelectionSendsNothing(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())
	before := m.machine.Generation()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("define without a selection should not start a job")
	}
	if m.machine.Generation() != before {
		t.Fatal("generation changed without a request")
	}
	if m.infoMessage != "Select a word first." {
		t.Fatalf("info message = %q", m.infoMessage)
	}
}

func TestExtendModeGrowsSelection(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(keyRunes("v"))
	if m.mode != modeExtend {
		t.Fatalf("mode = %v, want extend", m.mode)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	if got := readyArticle(t, m).Selection.Phrase; got != "Dogs are mammals" {
		t.Fatalf("extended selection = %q", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeNormal {
		t.Fatal("esc should leave extend mode before quitting")
	}
}

func TestExtendBeyondLimitIsRejected(t *testing.T) {
	m := newTestModelWith(t, app.Options{
		Articles: defaultArticles(),
		Tracker:  selection.Tracker{MaxLength: 5},
	})
	pump(t, m, m.Init())

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(keyRunes("v"))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	article := readyArticle(t, m)
	if article.Selection.HasPhrase() {
		t.Fatalf("over-long selection kept: %q", article.Selection.Phrase)
	}
	if !strings.Contains(m.errorMessage, "longer than 5 characters") {
		t.Fatalf("error message = %q", m.errorMessage)
	}
}

func TestPromptSelectsTypedPhrase(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())

	m.Update(keyRunes("/"))
	if m.mode != modeInput {
		t.Fatalf("mode = %v, want input", m.mode)
	}
	m.Update(keyRunes("are mammals"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeNormal {
		t.Fatal("enter should close the prompt")
	}
	if got := readyArticle(t, m).Selection.Phrase; got != "are mammals" {
		t.Fatalf("typed selection = %q", got)
	}
}

func TestPromptRejectsPhraseOutsideArticle(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	m.Update(keyRunes("/"))
	m.Update(keyRunes("reptiles"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if readyArticle(t, m).Selection.HasPhrase() {
		t.Fatal("rejected phrase should clear the selection")
	}
	if !strings.Contains(m.errorMessage, "does not appear") {
		t.Fatalf("error message = %q", m.errorMessage)
	}
}

func TestPromptKeysDoNotTriggerCommands(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())

	m.Update(keyRunes("/"))
	m.Update(keyRunes("q"))
	m.Update(keyRunes("r"))
	if m.mode != modeInput || m.prompt.Value() != "qr" {
		t.Fatalf("prompt should capture keys, got mode=%v value=%q", m.mode, m.prompt.Value())
	}
	if _, ok := m.machine.State().(app.Ready); !ok {
		t.Fatal("r inside the prompt should not refresh")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeNormal || m.prompt.Value() != "" {
		t.Fatal("esc should cancel the prompt")
	}
}

func TestSelectionChangeDropsInFlightDefinition(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())

	for i := 0; i < 3; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	pump(t, m, cmd)

	article := readyArticle(t, m)
	if article.Selection.Phrase != "are" {
		t.Fatalf("selection = %q", article.Selection.Phrase)
	}
	if article.HasDefinition() || article.DefinitionPending {
		t.Fatalf("stale definition applied: %+v", article)
	}
}

func TestRefreshLoadsAnotherArticle(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	_, cmd := m.Update(keyRunes("r"))
	if _, ok := m.machine.State().(app.Loading); !ok {
		t.Fatal("refresh should enter loading immediately")
	}
	pump(t, m, cmd)

	article := readyArticle(t, m)
	if article.Title != "Cat" || article.Selection.HasPhrase() {
		t.Fatalf("unexpected article after refresh: %+v", article)
	}
	if m.cursor != -1 {
		t.Fatalf("cursor should reset, got %d", m.cursor)
	}
	if !strings.Contains(m.View(), "They nap.") {
		t.Fatalf("paragraphs not rendered:\n%s", m.View())
	}
}

func TestFailureViewOffersRetry(t *testing.T) {
	articles := defaultArticles()
	articles.fail = &rest.NetworkError{Source: "wiki random title", StatusCode: 503, Err: errors.New("503 Service Unavailable")}
	m := newTestModelWith(t, app.Options{Articles: articles})
	pump(t, m, m.Init())

	if _, ok := m.machine.State().(app.Failure); !ok {
		t.Fatalf("expected failure, got %s", app.StateName(m.machine.State()))
	}
	view := m.View()
	if !strings.Contains(view, "Could not load an article") || !strings.Contains(view, "503") {
		t.Fatalf("failure view:\n%s", view)
	}

	articles.mu.Lock()
	articles.fail = nil
	articles.mu.Unlock()
	_, cmd := m.Update(keyRunes("r"))
	pump(t, m, cmd)
	if readyArticle(t, m).Title != "Dog" {
		t.Fatal("retry did not load an article")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m := newTestModel(t)
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s did not return tea.Quit", key)
		}
	}
}

func TestHelpLegendToggle(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())

	if strings.Contains(m.View(), "Extend selection") {
		t.Fatal("legend should be hidden by default")
	}
	m.Update(keyRunes("?"))
	if !strings.Contains(m.View(), "Extend selection") {
		t.Fatal("legend did not appear after toggling help")
	}
	m.Update(keyRunes("?"))
	if strings.Contains(m.View(), "Extend selection") {
		t.Fatal("legend should hide again after second toggle")
	}
}

func TestJobBadgesTrackRequests(t *testing.T) {
	m := newTestModel(t)
	pump(t, m, m.Init())

	badges := strings.Join(m.jobStatusBadges(), " ")
	if !strings.Contains(badges, "article") || !strings.Contains(badges, "random") {
		t.Fatalf("badges = %q", badges)
	}
	if snap := m.jobStatus[app.RequestArticle]; snap.Status != jobStatusSucceeded {
		t.Fatalf("article job status = %s", snap.Status)
	}
}
