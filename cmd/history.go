package cmd

import (
	"fmt"
	"strings"

	"github.com/lfreitas/redator/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List graded essays, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		userID := resolveIdentity(ctx)

		records, err := st.Corrections().Query(ctx, userID)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No graded essays yet.")
			return nil
		}

		recent := history.SortByRecency(records)
		if limit > 0 && len(recent) > limit {
			recent = recent[:limit]
		}

		fmt.Printf("%-17s  %5s  %s\n", "When", "Score", "Theme")
		fmt.Println(strings.Repeat("─", 64))
		for _, rec := range recent {
			when := "pending"
			if !rec.CreatedAt.IsZero() {
				when = rec.CreatedAt.Local().Format("2006-01-02 15:04")
			}
			themeLabel := rec.Correction.Theme
			if themeLabel == "" {
				themeLabel = history.UnidentifiedTheme
			}
			fmt.Printf("%-17s  %5d  %s\n", when, rec.Correction.FinalScore, themeLabel)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 0, "Max essays to show (0 = all)")
}
