package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/logger"
	"github.com/abhisek/lessonforge/internal/pipeline"
	"github.com/abhisek/lessonforge/internal/ui/theme"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <lesson.json>",
	Short: "Check a stored lesson's format version and re-validate its sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read lesson: %w", err)
		}
		var l lesson.Lesson
		if err := json.Unmarshal(data, &l); err != nil {
			return fmt.Errorf("decode lesson: %w", err)
		}

		checks, err := pipeline.Inspect(cmd.Context(), &l, logger.Nop())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(l.Title))
		fmt.Fprintln(out, theme.Label.Render(fmt.Sprintf("%s · %s · %s · format %s",
			l.ID, l.LessonType, l.Level, l.FormatVersion)))
		fmt.Fprintln(out)

		unusable := 0
		for _, c := range checks {
			status := theme.Good.Render("ok     ")
			switch {
			case c.Unusable != "":
				status = theme.Bad.Render("broken ")
				unusable++
			case !c.Result.Valid:
				status = theme.Fair.Render("issues ")
			}
			fmt.Fprintf(out, "%s %-18s %s\n", status, c.Section,
				theme.ForScore(float64(c.Result.Score)).Render(fmt.Sprintf("%3d", c.Result.Score)))
			for _, issue := range c.Result.Issues {
				fmt.Fprintln(out, theme.Hint.Render("        • "+issue))
			}
			if c.Unusable != "" {
				fmt.Fprintln(out, theme.Hint.Render("        • "+c.Unusable))
			}
		}

		if unusable > 0 {
			return fmt.Errorf("%d sections are below their minimum", unusable)
		}
		return nil
	},
}
