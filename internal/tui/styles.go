package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed     = lipgloss.Color("#ff5555")
	colorGreen   = lipgloss.Color("#50fa7b")
	colorYellow  = lipgloss.Color("#f1fa8c")
	colorBlue    = lipgloss.Color("#8be9fd")
	colorPurple  = lipgloss.Color("#bd93f9")
	colorDim     = lipgloss.Color("#6272a4")
	colorBgLight = lipgloss.Color("#343746")
	colorFg      = lipgloss.Color("#f8f8f2")
	colorBorder  = lipgloss.Color("#44475a")
	colorSelect  = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// Issue list styles
	issueListStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	issueItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	issueItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorSelect).
				Bold(true)

	// Detail panel styles
	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	detailHeaderStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true).
				Padding(0, 0, 1, 0)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	quoteStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Italic(true)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	// Severity styles
	severityMajorStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	severityMinorStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	// Outcome styles
	outcomeAppliedStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	outcomeNotFoundStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	outcomeSkippedStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	flashStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Background(colorBgLight).
			Bold(true)

	// Help bar
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)
