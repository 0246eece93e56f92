// Package progress is the "Histórico e Progresso" tab: top-5 ranking,
// per-theme averages, and the full reverse-chronological history.
package progress

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lfreitas/redator/internal/correction"
	"github.com/lfreitas/redator/internal/history"
	"github.com/lfreitas/redator/internal/pipeline"
	"github.com/lfreitas/redator/internal/screen"
	"github.com/lfreitas/redator/internal/ui/components"
	"github.com/lfreitas/redator/internal/ui/layout"
	"github.com/lfreitas/redator/internal/ui/theme"
)

// RecordsMsg carries a fresh history snapshot from the live store
// subscription into the UI loop.
type RecordsMsg struct {
	Records []correction.Record
}

// ProgressScreen renders aggregate views over the stored corrections.
type ProgressScreen struct {
	ctrl    *pipeline.Controller
	records []correction.Record
	scroll  int
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates the progress screen over the pipeline controller.
func New(ctrl *pipeline.Controller) *ProgressScreen {
	return &ProgressScreen{ctrl: ctrl}
}

func (s *ProgressScreen) Init() tea.Cmd {
	// The subscription may have delivered snapshots before this tab
	// was first shown.
	s.records = s.ctrl.Records()
	return nil
}

func (s *ProgressScreen) Title() string {
	return "Histórico e Progresso"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Rolar"},
		{Key: "Tab", Description: "Trocar aba"},
		{Key: "Ctrl+C", Description: "Sair"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case RecordsMsg:
		s.records = msg.Records
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			if s.scroll < len(s.records)-1 {
				s.scroll++
			}
		}
	}
	return s, nil
}

func (s *ProgressScreen) View(width, height int) string {
	if len(s.records) == 0 {
		return theme.Subtitle.Width(width).Render("Nenhuma redação corrigida ainda.\nEnvie sua primeira redação na aba Nova Correção.")
	}

	var b strings.Builder

	chartWidth := width - 6
	if chartWidth > 72 {
		chartWidth = 72
	}

	b.WriteString(sectionTitle("Top 5 Redações"))
	b.WriteString("\n")
	b.WriteString(components.NewBarChart(topBars(s.records), correction.MaxFinalScore, chartWidth).View())
	b.WriteString("\n\n")

	b.WriteString(sectionTitle("Média por Tema"))
	b.WriteString("\n")
	for _, agg := range history.AverageByTheme(s.records) {
		label := fmt.Sprintf("%s (%d)", agg.Theme, agg.Count)
		bar := components.NewProgressBar(label, agg.AverageScore/float64(correction.MaxFinalScore), false, chartWidth)
		b.WriteString(bar.View())
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  %.0f", agg.AverageScore)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionTitle("Histórico"))
	b.WriteString("\n")
	b.WriteString(s.renderHistory(width))

	return b.String()
}

func (s *ProgressScreen) renderHistory(width int) string {
	recent := history.SortByRecency(s.records)

	var b strings.Builder
	for i := s.scroll; i < len(recent); i++ {
		rec := recent[i]

		when := "pendente"
		if !rec.CreatedAt.IsZero() {
			when = rec.CreatedAt.Local().Format("02/01/2006 15:04")
		}
		themeLabel := rec.Correction.Theme
		if themeLabel == "" {
			themeLabel = history.UnidentifiedTheme
		}

		line := fmt.Sprintf("%s  %s  %s",
			theme.Hint.Render(when),
			theme.ScoreHigh.Render(fmt.Sprintf("%4d", rec.Correction.FinalScore)),
			theme.Body.Render(themeLabel),
		)
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("  " + excerpt(rec.EssayText, width-6)))
		b.WriteString("\n")
	}
	return b.String()
}

func sectionTitle(title string) string {
	return lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(title)
}

// topBars labels the top-5 chart by the first word of the theme, so
// labels stay narrow under the bars. Unthemed records fall back to the
// submission date.
func topBars(records []correction.Record) []components.Bar {
	top := history.RankTopN(records, 5)
	bars := make([]components.Bar, 0, len(top))
	for _, rec := range top {
		label := history.UnidentifiedTheme
		if words := strings.Fields(rec.Correction.Theme); len(words) > 0 {
			label = words[0]
		} else if !rec.CreatedAt.IsZero() {
			label = rec.CreatedAt.Local().Format("02/01")
		}
		bars = append(bars, components.Bar{Label: label, Value: rec.Correction.FinalScore})
	}
	return bars
}

func excerpt(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")
	if width < 16 {
		width = 16
	}
	runes := []rune(text)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return text
}
