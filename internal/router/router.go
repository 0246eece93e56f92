package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/lfreitas/redator/internal/screen"
)

// SwitchTabMsg requests the router to activate the tab at Index.
type SwitchTabMsg struct {
	Index int
}

// Router manages a fixed set of tabs. Every tab stays alive while
// inactive so its state (draft essay, loaded history) survives
// switching.
type Router struct {
	tabs   []screen.Screen
	active int
}

// New creates a Router over the given tabs. The first tab starts
// active.
func New(tabs ...screen.Screen) *Router {
	return &Router{tabs: tabs}
}

// Switch activates the tab at index and calls its Init(). Out-of-range
// indices are ignored.
func (r *Router) Switch(index int) tea.Cmd {
	if index < 0 || index >= len(r.tabs) || index == r.active {
		return nil
	}
	r.active = index
	return r.tabs[index].Init()
}

// Next cycles to the following tab.
func (r *Router) Next() tea.Cmd {
	return r.Switch((r.active + 1) % len(r.tabs))
}

// Active returns the current tab.
func (r *Router) Active() screen.Screen {
	if len(r.tabs) == 0 {
		return nil
	}
	return r.tabs[r.active]
}

// ActiveIndex returns the current tab's index.
func (r *Router) ActiveIndex() int {
	return r.active
}

// Titles returns the tab titles in order, for the header strip.
func (r *Router) Titles() []string {
	titles := make([]string, len(r.tabs))
	for i, t := range r.tabs {
		titles[i] = t.Title()
	}
	return titles
}

// Update forwards a message to every tab and handles tab switches.
// Inactive tabs receive messages too, so live history snapshots keep
// the progress view current while the correction tab is in front.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if sw, ok := msg.(SwitchTabMsg); ok {
		return r.Switch(sw.Index)
	}

	var cmds []tea.Cmd
	for i, t := range r.tabs {
		// Key events only reach the active tab.
		if _, isKey := msg.(tea.KeyMsg); isKey && i != r.active {
			continue
		}
		updated, cmd := t.Update(msg)
		r.tabs[i] = updated
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// View renders the active tab.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
