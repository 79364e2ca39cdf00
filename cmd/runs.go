package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonforge/internal/quality"
	"github.com/abhisek/lessonforge/internal/ui/report"
	"github.com/abhisek/lessonforge/internal/ui/theme"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse lesson generation history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent lesson runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.RunRepo().ListRuns(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Runs(runs))
		return nil
	},
}

var runsViewCmd = &cobra.Command{
	Use:   "view <lesson-id>",
	Short: "Show the quality report of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		run, err := s.RunRepo().GetRun(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("no run for lesson %s", args[0])
		}

		var rep quality.Report
		if err := json.Unmarshal(run.Report, &rep); err != nil {
			return fmt.Errorf("decode quality report: %w", err)
		}

		out := cmd.OutOrStdout()
		title := run.Title
		if title == "" {
			title = run.LessonID
		}
		fmt.Fprintln(out, report.Quality(title, rep))
		if run.FailedSection != "" {
			fmt.Fprintln(out, theme.Bad.Render(fmt.Sprintf("failed at %s (%s)", run.FailedSection, run.FailureClass)))
		}
		return nil
	},
}

var runsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.RunRepo().Prune(cmd.Context(), keep); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Kept the %d most recent runs.\n", keep)
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	runsPruneCmd.Flags().Int("keep", 100, "Number of runs to keep")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsViewCmd)
	runsCmd.AddCommand(runsPruneCmd)
}
