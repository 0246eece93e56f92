// Package app wires the pipeline controller into the root Bubble Tea
// model: a two-tab TUI over correction entry and history views.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lfreitas/redator/internal/correction"
	"github.com/lfreitas/redator/internal/pipeline"
	"github.com/lfreitas/redator/internal/router"
	"github.com/lfreitas/redator/internal/screen"
	"github.com/lfreitas/redator/internal/screens/editor"
	"github.com/lfreitas/redator/internal/screens/progress"
	"github.com/lfreitas/redator/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router    *router.Router
	userLabel string
	width     int
	height    int
}

// newAppModel creates an AppModel with the editor and progress tabs.
func newAppModel(ctrl *pipeline.Controller, userLabel string) AppModel {
	return AppModel{
		router:    router.New(editor.New(ctrl), progress.New(ctrl)),
		userLabel: userLabel,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			return m, m.router.Next()
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.router.Titles(), m.router.ActiveIndex(), m.userLabel, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Tab", Description: "Switch tab"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hinted, ok := m.router.Active().(screen.KeyHintProvider); ok {
		footerHints = hinted.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program over an already-bound controller.
// History snapshots delivered by the store subscription are forwarded
// into the UI loop.
func Run(ctrl *pipeline.Controller, userLabel string) error {
	p := tea.NewProgram(newAppModel(ctrl, userLabel))

	ctrl.SetOnRecords(func(records []correction.Record) {
		p.Send(progress.RecordsMsg{Records: records})
	})

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
