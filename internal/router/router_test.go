package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/lfreitas/redator/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title    string
	initRuns int
	lastMsg  tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRuns++
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.lastMsg = msg
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

type stubMsg struct{ value string }

func TestFirstTabStartsActive(t *testing.T) {
	first := &stubScreen{title: "first"}
	r := New(first, &stubScreen{title: "second"})

	if r.ActiveIndex() != 0 {
		t.Errorf("active index = %d, want 0", r.ActiveIndex())
	}
	if r.Active().Title() != "first" {
		t.Errorf("active = %q, want first", r.Active().Title())
	}
}

func TestSwitch(t *testing.T) {
	first := &stubScreen{title: "first"}
	second := &stubScreen{title: "second"}
	r := New(first, second)

	r.Switch(1)

	if r.Active().Title() != "second" {
		t.Errorf("active = %q, want second", r.Active().Title())
	}
	if second.initRuns != 1 {
		t.Errorf("Init runs = %d, want 1", second.initRuns)
	}
}

func TestSwitchIgnoresOutOfRange(t *testing.T) {
	r := New(&stubScreen{title: "first"}, &stubScreen{title: "second"})

	r.Switch(-1)
	r.Switch(2)

	if r.ActiveIndex() != 0 {
		t.Errorf("active index = %d, want 0", r.ActiveIndex())
	}
}

func TestNextCycles(t *testing.T) {
	r := New(&stubScreen{title: "first"}, &stubScreen{title: "second"})

	r.Next()
	if r.ActiveIndex() != 1 {
		t.Fatalf("active index = %d, want 1", r.ActiveIndex())
	}
	r.Next()
	if r.ActiveIndex() != 0 {
		t.Fatalf("active index = %d, want 0 after wrap", r.ActiveIndex())
	}
}

func TestSwitchTabMsg(t *testing.T) {
	second := &stubScreen{title: "second"}
	r := New(&stubScreen{title: "first"}, second)

	r.Update(SwitchTabMsg{Index: 1})

	if r.Active().Title() != "second" {
		t.Errorf("active = %q, want second", r.Active().Title())
	}
	if second.initRuns != 1 {
		t.Error("expected Init() to run via SwitchTabMsg")
	}
}

func TestUpdateReachesInactiveTabs(t *testing.T) {
	first := &stubScreen{title: "first"}
	second := &stubScreen{title: "second"}
	r := New(first, second)

	msg := stubMsg{value: "snapshot"}
	r.Update(msg)

	if first.lastMsg != msg {
		t.Error("active tab did not receive the message")
	}
	if second.lastMsg != msg {
		t.Error("inactive tab did not receive the message")
	}
}

func TestKeysOnlyReachActiveTab(t *testing.T) {
	first := &stubScreen{title: "first"}
	second := &stubScreen{title: "second"}
	r := New(first, second)

	key := tea.KeyPressMsg{Code: 'a', Text: "a"}
	r.Update(key)

	if first.lastMsg == nil {
		t.Error("active tab did not receive the key")
	}
	if second.lastMsg != nil {
		t.Error("inactive tab received a key event")
	}
}

func TestTitles(t *testing.T) {
	r := New(&stubScreen{title: "Nova Correção"}, &stubScreen{title: "Histórico e Progresso"})

	titles := r.Titles()
	if len(titles) != 2 || titles[0] != "Nova Correção" || titles[1] != "Histórico e Progresso" {
		t.Errorf("titles = %v", titles)
	}
}
