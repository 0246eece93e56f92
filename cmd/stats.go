package cmd

import (
	"fmt"
	"strings"

	"github.com/lfreitas/redator/internal/history"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show top essays and per-theme averages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

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

		fmt.Println("Top 5 Essays")
		fmt.Println(strings.Repeat("─", 56))
		for i, rec := range history.RankTopN(records, 5) {
			themeLabel := rec.Correction.Theme
			if themeLabel == "" {
				themeLabel = history.UnidentifiedTheme
			}
			fmt.Printf("%d.  %4d  %s\n", i+1, rec.Correction.FinalScore, themeLabel)
		}

		fmt.Println()
		fmt.Println("Average by Theme")
		fmt.Println(strings.Repeat("─", 56))
		for _, agg := range history.AverageByTheme(records) {
			fmt.Printf("%-36s  %6.0f  (%d essays)\n", agg.Theme, agg.AverageScore, agg.Count)
		}
		return nil
	},
}
