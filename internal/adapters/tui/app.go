package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"notesplit/internal/adapters/tui/views"
	"notesplit/internal/domain"
)

// ViewState represents the current view
type ViewState int

const (
	ViewReview ViewState = iota
	ViewHelp
)

// App is the review TUI model
type App struct {
	state  ViewState
	review *views.ReviewModel
	help   *views.HelpModel

	selection domain.Selection
	done      bool

	width  int
	height int
}

// NewApp creates a review application for the given selection
func NewApp(segments []domain.Segment, selection domain.Selection) *App {
	return &App{
		state:  ViewReview,
		review: views.NewReviewModel(segments, selection),
		help:   views.NewHelpModel(),
	}
}

// Selection returns the confirmed selection. It is empty when the review
// was cancelled or has not finished.
func (a *App) Selection() domain.Selection {
	if !a.done || a.selection == nil {
		return domain.Selection{}
	}
	return a.selection
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.review.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.review.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToReviewMsg:
		a.state = ViewReview
		return a, nil

	case views.ReviewDoneMsg:
		a.selection = msg.Selection
		a.done = true
		return a, tea.Quit

	case views.ReviewCancelledMsg:
		a.selection = domain.Selection{}
		a.done = true
		return a, tea.Quit
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewReview:
		_, cmd = a.review.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	if a.done {
		return ""
	}
	switch a.state {
	case ViewHelp:
		return a.help.View()
	default:
		return a.review.View()
	}
}
