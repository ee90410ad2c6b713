package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/pitsorgalla/Wortify/internal/app"
	"github.com/pitsorgalla/Wortify/internal/dictionary"
)

func (m *model) View() string {
	switch state := m.machine.State().(type) {
	case app.Loading:
		return m.viewLoading()
	case app.Failure:
		return m.viewFailure(state)
	case app.Ready:
		return m.viewReady(state)
	default:
		return ""
	}
}

func (m *model) viewLoading() string {
	body := helperStyle.Render(fmt.Sprintf("%s Fetching a random article…", m.spinner.View()))
	return joinNonEmpty([]string{m.heroView(""), body, m.footerView()})
}

func (m *model) viewFailure(state app.Failure) string {
	body := joinNonEmpty([]string{
		sectionHeaderStyle.Render("Could not load an article"),
		errorStyle.Render(wordwrap.String(state.Err.Error(), m.wrapWidth(2))),
		helperStyle.Render("Press r to try another article, q to quit."),
	})
	return joinNonEmpty([]string{m.heroView(""), body, m.footerView()})
}

func (m *model) viewReady(state app.Ready) string {
	m.refreshViewportIfDirty()
	parts := []string{m.heroView(state.Article.Title), m.viewport.View(), m.definitionView(state.Article)}
	if m.mode == modeInput {
		parts = append(parts, joinNonEmpty([]string{
			sectionHeaderStyle.Render("Select a phrase"),
			m.prompt.View(),
		}))
	}
	parts = append(parts, m.footerView())
	return joinNonEmpty(parts)
}

func (m *model) heroView(title string) string {
	logo := logoStyle.Render(logoText)
	if title == "" {
		return lipgloss.JoinVertical(lipgloss.Left, logo, taglineStyle.Render(heroTagline))
	}
	box := heroBoxStyle.Render(heroTitleStyle.Render(previewText(title, m.wrapWidth(len(logoText)+12))))
	return lipgloss.JoinHorizontal(lipgloss.Center, logo, heroSummaryStyle.Render(box))
}

func (m *model) definitionView(article app.Article) string {
	wrap := m.wrapWidth(4)
	var body string
	switch {
	case !article.Selection.HasPhrase():
		body = helperStyle.Render("Pick a word with ←/→ or type a phrase with /, then press enter.")
	case article.DefinitionPending:
		body = helperStyle.Render(fmt.Sprintf("%s Looking up…", m.spinner.View()))
	case article.Definition == dictionary.ErrorText:
		body = errorStyle.Render(article.Definition)
	case article.HasDefinition():
		body = wordwrap.String(article.Definition, wrap)
	default:
		body = helperStyle.Render("Press enter to define.")
	}
	body = clampLines(body, m.layout.definitionHeight)
	header := sectionHeaderStyle.Render("Definition")
	if article.Selection.HasPhrase() {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, " ", phraseStyle.Render(previewText(article.Selection.Phrase, wrap-12)))
	}
	return definitionBoxStyle.Render(joinNonEmpty([]string{header, indentMultiline(body, "  ")}))
}

func clampLines(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= limit {
		return text
	}
	lines = lines[:limit]
	lines[limit-1] = strings.TrimRight(lines[limit-1], " ") + "…"
	return strings.Join(lines, "\n")
}

func (m *model) footerView() string {
	parts := []string{m.sessionMeterView()}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	return strings.Join(filterEmpty(parts), "\n")
}

func (m *model) modeLabel() string {
	switch m.mode {
	case modeExtend:
		return "EXTEND"
	case modeInput:
		return "INPUT"
	default:
		return "NORMAL"
	}
}

func (m *model) sessionMeterView() string {
	stats := []string{fmt.Sprintf("Mode %s", m.modeLabel())}
	if ready, ok := m.machine.State().(app.Ready); ok {
		tracker := m.machine.Tracker()
		used := tracker.Measure(ready.Article.Selection.Phrase)
		stats = append(stats, fmt.Sprintf("Selection %d/%d %s", used, ready.Article.Selection.MaxLength, trackerUnit(tracker)))
	} else {
		stats = append(stats, strings.ToUpper(app.StateName(m.machine.State())))
	}
	if m.config.DefinitionSource != "" {
		stats = append(stats, m.config.DefinitionSource)
	}
	stats = append(stats, m.jobStatusBadges()...)
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	if len(m.jobStatus) == 0 {
		return nil
	}
	kinds := make([]string, 0, len(m.jobStatus))
	for kind := range m.jobStatus {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	badges := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		snapshot := m.jobStatus[app.RequestKind(kind)]
		switch snapshot.Status {
		case jobStatusRunning:
			badges = append(badges, fmt.Sprintf("%s…", kind))
		case jobStatusFailed:
			badges = append(badges, fmt.Sprintf("%s ✗", kind))
		default:
			badges = append(badges, fmt.Sprintf("%s %dms", kind, snapshot.Duration.Milliseconds()))
		}
	}
	return badges
}

func (m *model) keyLegendView() string {
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(keyHints); i += columns {
		end := i + columns
		if end > len(keyHints) {
			end = len(keyHints)
		}
		var cells []string
		for _, hint := range keyHints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			if !m.commandAvailable(hint.Action) {
				key = helperStyle.Render(" " + hint.Key + " ")
				desc = helperStyle.Render(" " + hint.Description + "  ")
			}
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func filterEmpty(parts []string) []string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return filtered
}

func joinNonEmpty(parts []string) string {
	return strings.Join(filterEmpty(parts), "\n\n")
}
