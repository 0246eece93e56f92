// Package history computes read-only views over stored correction
// records: rankings, per-theme averages, and recency ordering. All
// functions are pure and leave their input slices untouched.
package history

import (
	"sort"

	"github.com/lfreitas/redator/internal/correction"
)

// UnidentifiedTheme labels records whose correction carries no theme.
const UnidentifiedTheme = "Unidentified"

// ThemeAggregate is the average score across all corrections sharing
// a theme.
type ThemeAggregate struct {
	Theme        string
	AverageScore float64
	Count        int
}

// RankTopN returns up to n records ordered by final score, highest
// first. Ties keep the input order, so earlier submissions rank ahead
// of later ones with the same score.
func RankTopN(records []correction.Record, n int) []correction.Record {
	if n <= 0 || len(records) == 0 {
		return nil
	}

	ranked := make([]correction.Record, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Correction.FinalScore > ranked[j].Correction.FinalScore
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// AverageByTheme groups records by their identified theme and returns
// the mean final score per theme. Records with no theme fall under
// UnidentifiedTheme. Output order follows first appearance in the
// input, so the view is stable across refreshes.
func AverageByTheme(records []correction.Record) []ThemeAggregate {
	totals := make(map[string]*ThemeAggregate)
	var order []string

	for _, rec := range records {
		theme := rec.Correction.Theme
		if theme == "" {
			theme = UnidentifiedTheme
		}
		agg, ok := totals[theme]
		if !ok {
			agg = &ThemeAggregate{Theme: theme}
			totals[theme] = agg
			order = append(order, theme)
		}
		agg.AverageScore += float64(rec.Correction.FinalScore)
		agg.Count++
	}

	out := make([]ThemeAggregate, 0, len(order))
	for _, theme := range order {
		agg := totals[theme]
		out = append(out, ThemeAggregate{
			Theme:        agg.Theme,
			AverageScore: agg.AverageScore / float64(agg.Count),
			Count:        agg.Count,
		})
	}
	return out
}

// SortByRecency returns the records ordered newest first. Records with
// no timestamp sort last, as if written at the beginning of time.
func SortByRecency(records []correction.Record) []correction.Record {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]correction.Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}
