package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lfreitas/redator/internal/ui/theme"
)

// EssayInput wraps bubbles/textarea with Redator styling for multi-line
// essay entry.
type EssayInput struct {
	Model textarea.Model
}

// NewEssayInput creates a focused essay input.
func NewEssayInput(placeholder string, width, height int) EssayInput {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.Focus()

	return EssayInput{Model: ta}
}

// Init returns the initial command.
func (e EssayInput) Init() tea.Cmd {
	return e.Model.Focus()
}

// Update handles messages.
func (e EssayInput) Update(msg tea.Msg) (EssayInput, tea.Cmd) {
	var cmd tea.Cmd
	e.Model, cmd = e.Model.Update(msg)
	return e, cmd
}

// View renders the input inside a card border.
func (e EssayInput) View() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(e.Model.View())
}

// Value returns the current text.
func (e EssayInput) Value() string {
	return e.Model.Value()
}

// Reset clears the text.
func (e *EssayInput) Reset() {
	e.Model.Reset()
}

// SetSize resizes the underlying textarea.
func (e *EssayInput) SetSize(width, height int) {
	e.Model.SetWidth(width)
	e.Model.SetHeight(height)
}

// Blur removes focus so keystrokes stop editing.
func (e *EssayInput) Blur() {
	e.Model.Blur()
}

// Focus returns focus to the input.
func (e *EssayInput) Focus() tea.Cmd {
	return e.Model.Focus()
}
