package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/lfreitas/redator/internal/ui/layout"
)

// Screen is one tab of the application: the essay editor or the progress
// view. The router owns which one is active.
type Screen interface {
	// Init returns an initial command when the tab first becomes active.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen plus a command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the tab body, without the header tab strip or footer.
	View(width, height int) string

	// Title returns the label shown in the header tab strip.
	Title() string
}

// KeyHintProvider is implemented by screens that contribute their own
// footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
