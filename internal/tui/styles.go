package tui

import "github.com/charmbracelet/lipgloss"

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor        = lipgloss.Color("#2a9d8f")
	heroInkColor           = lipgloss.Color("#06241f")
	heroTextColor          = lipgloss.Color("#e9f5f2")
	heroSecondaryTextColor = lipgloss.Color("#8bd3c7")

	heroTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor)
	heroBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Background(heroInkColor).Padding(0, 2)
	heroSummaryStyle   = lipgloss.NewStyle().PaddingLeft(2)
	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	definitionBoxStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false).BorderForeground(heroAccentColor)
	cursorWordStyle    = lipgloss.NewStyle().Underline(true).Bold(true)
	selectedWordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#bde0fe"))
	phraseStyle        = lipgloss.NewStyle().Bold(true).Foreground(heroSecondaryTextColor)
	logoStyle          = lipgloss.NewStyle().Bold(true).Foreground(heroInkColor).Background(heroAccentColor).Padding(0, 1)
)

const logoText = "W O R T I F Y"
