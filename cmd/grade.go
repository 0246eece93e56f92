package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lfreitas/redator/internal/correction"
	"github.com/lfreitas/redator/internal/grader"
	"github.com/lfreitas/redator/internal/llm"
	"github.com/lfreitas/redator/internal/pipeline"
	"github.com/spf13/cobra"
)

var gradeCmd = &cobra.Command{
	Use:   "grade [file]",
	Short: "Grade one essay from a file or stdin and print the correction",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		essayText, err := readEssay(args)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		userID := resolveIdentity(ctx)
		proposedTheme, _ := cmd.Flags().GetString("theme")

		ctrl := pipeline.New(grader.New(provider, grader.DefaultConfig()), st.Corrections())
		defer ctrl.Close()
		if err := ctrl.Bind(ctx, userID); err != nil {
			fmt.Fprintln(os.Stderr, "history subscription:", err)
		}

		result, err := ctrl.Submit(ctx, essayText, proposedTheme)
		if result != nil {
			printCorrection(result)
		}
		if err != nil {
			return err
		}
		return nil
	},
}

func readEssay(args []string) (string, error) {
	var data []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read essay file: %w", err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read essay from stdin: %w", err)
		}
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("essay text is empty")
	}
	return text, nil
}

func printCorrection(r *correction.Result) {
	sep := strings.Repeat("─", 64)

	fmt.Println(sep)
	fmt.Printf("Nota Final: %d / %d\n", r.FinalScore, correction.MaxFinalScore)
	if r.Theme != "" {
		fmt.Printf("Tema:       %s\n", r.Theme)
	}
	fmt.Println(sep)

	for _, comp := range r.Competencies {
		fmt.Printf("\n%s — %d/%d\n", comp.Name, comp.Score, correction.MaxCompetencyScore)
		fmt.Println(comp.Feedback)
	}

	if r.GeneralSuggestions != "" {
		fmt.Println()
		fmt.Println(sep)
		fmt.Println("Sugestões Gerais")
		fmt.Println(sep)
		fmt.Println(r.GeneralSuggestions)
	}
}

func init() {
	gradeCmd.Flags().StringP("theme", "t", "", "Proposed essay theme, when known")
}
