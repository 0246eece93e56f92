package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all graded essays for the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		force, _ := cmd.Flags().GetBool("force")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		userID := resolveIdentity(ctx)

		if !force {
			fmt.Printf("Delete all graded essays for %s? [y/N] ", userID)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		n, err := st.Corrections().DeleteAll(ctx, userID)
		if err != nil {
			return fmt.Errorf("delete corrections: %w", err)
		}
		fmt.Printf("Deleted %d graded essays.\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
}
