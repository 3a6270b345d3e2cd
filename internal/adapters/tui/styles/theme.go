package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	Link      = lipgloss.Color("#60A5FA") // Blue
	White     = lipgloss.Color("#FFFFFF")

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Segment list
	SegmentID = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	SegmentLines = lipgloss.NewStyle().
			Foreground(Link)

	SegmentCursor = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	Checked = lipgloss.NewStyle().
		Foreground(Secondary).
		SetString("[x]")

	Unchecked = lipgloss.NewStyle().
			Foreground(Muted).
			SetString("[ ]")

	// Labels
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	NoteName = lipgloss.NewStyle().
			Foreground(Link).
			Underline(true)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// Diff lines
	DiffAdd    = lipgloss.NewStyle().Foreground(Secondary)
	DiffDelete = lipgloss.NewStyle().Foreground(Error)
	DiffHunk   = lipgloss.NewStyle().Foreground(Link)
)
