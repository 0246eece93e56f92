// Package editor is the "Nova Correção" tab: essay entry, submission,
// and the rendered correction result.
package editor

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lfreitas/redator/internal/correction"
	"github.com/lfreitas/redator/internal/pipeline"
	"github.com/lfreitas/redator/internal/screen"
	"github.com/lfreitas/redator/internal/ui/components"
	"github.com/lfreitas/redator/internal/ui/layout"
	"github.com/lfreitas/redator/internal/ui/theme"
)

type submitDoneMsg struct {
	Result *correction.Result
	Err    error
}

// EditorScreen drives one correction at a time: type, submit, read the
// result, reset.
type EditorScreen struct {
	ctrl  *pipeline.Controller
	input components.EssayInput

	result *correction.Result
	errMsg string
	width  int
	height int
}

var _ screen.Screen = (*EditorScreen)(nil)
var _ screen.KeyHintProvider = (*EditorScreen)(nil)

// New creates the editor screen over the pipeline controller.
func New(ctrl *pipeline.Controller) *EditorScreen {
	return &EditorScreen{
		ctrl:  ctrl,
		input: components.NewEssayInput("Cole ou digite sua redação aqui...", 76, 12),
	}
}

func (s *EditorScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *EditorScreen) Title() string {
	return "Nova Correção"
}

func (s *EditorScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+S", Description: "Corrigir"},
		{Key: "Ctrl+N", Description: "Nova redação"},
		{Key: "Tab", Description: "Trocar aba"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (s *EditorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		inputWidth := msg.Width - 8
		if inputWidth < 20 {
			inputWidth = 20
		}
		s.input.SetSize(inputWidth, 12)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			return s, s.submit()
		case "ctrl+n":
			s.input.Reset()
			s.result = nil
			s.errMsg = ""
			s.ctrl.Reset()
			return s, s.input.Focus()
		}

	case submitDoneMsg:
		// A graded result may arrive even on error: a failed store
		// write still shows the correction.
		s.result = msg.Result
		if msg.Err != nil {
			s.errMsg = s.ctrl.ErrMsg()
			if s.errMsg == "" {
				s.errMsg = msg.Err.Error()
			}
		} else {
			s.errMsg = ""
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *EditorScreen) submit() tea.Cmd {
	if s.ctrl.Busy() {
		return nil
	}

	text := s.input.Value()
	if strings.TrimSpace(text) == "" {
		s.errMsg = "Digite uma redação antes de enviar."
		return nil
	}

	s.result = nil
	s.errMsg = ""

	return func() tea.Msg {
		result, err := s.ctrl.Submit(context.Background(), text, "")
		return submitDoneMsg{Result: result, Err: err}
	}
}

func (s *EditorScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render("Corretor de Redação ENEM"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n")

	if banner := s.ctrl.SubscriptionErrMsg(); banner != "" {
		b.WriteString(theme.ErrorBanner.Render("⚠ " + banner))
		b.WriteString("\n")
	}

	switch {
	case s.ctrl.Busy():
		b.WriteString(theme.Hint.Render("Corrigindo sua redação..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorBanner.Render("✗ " + s.errMsg))
		if s.result != nil {
			b.WriteString("\n\n")
			b.WriteString(s.renderResult(width))
		}
	case s.result != nil:
		b.WriteString(s.renderResult(width))
	default:
		b.WriteString(theme.Hint.Render("Pressione Ctrl+S para enviar sua redação para correção."))
	}

	return b.String()
}

func (s *EditorScreen) renderResult(width int) string {
	r := s.result
	var b strings.Builder

	scoreStyle := theme.ScoreHigh
	if r.FinalScore < 600 {
		scoreStyle = theme.ScoreLow
	}
	b.WriteString(scoreStyle.Render(fmt.Sprintf("Nota Final: %d / %d", r.FinalScore, correction.MaxFinalScore)))
	if r.Theme != "" {
		b.WriteString("   ")
		b.WriteString(theme.Hint.Render("Tema: " + r.Theme))
	}
	b.WriteString("\n\n")

	barWidth := width - 10
	if barWidth > 60 {
		barWidth = 60
	}
	for _, comp := range r.Competencies {
		label := fmt.Sprintf("%s (%d/%d)", comp.Name, comp.Score, correction.MaxCompetencyScore)
		bar := components.NewProgressBar(label, float64(comp.Score)/float64(correction.MaxCompetencyScore), false, barWidth)
		b.WriteString(bar.View())
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(wrap(comp.Feedback, width-4)))
		b.WriteString("\n\n")
	}

	if r.GeneralSuggestions != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Sugestões Gerais"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(wrap(r.GeneralSuggestions, width-4)))
	}

	return b.String()
}

// wrap soft-wraps text to the given width without splitting words.
func wrap(text string, width int) string {
	if width < 16 {
		width = 16
	}
	var b strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)
		if lineLen > 0 && lineLen+1+wordLen > width {
			b.WriteString("\n")
			lineLen = 0
		} else if lineLen > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += wordLen
	}
	return b.String()
}
