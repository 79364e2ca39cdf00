package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonforge/internal/batch"
	"github.com/abhisek/lessonforge/internal/ui/theme"
)

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Generate every lesson listed in a YAML manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringP("out-dir", "o", "lessons", "Directory for the generated lesson JSON files")
	batchCmd.Flags().IntP("concurrency", "c", 0, "Lessons generated at once (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	jobs, err := batch.LoadManifest(args[0])
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx := cmd.Context()
	d, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	if concurrency <= 0 {
		concurrency = d.cfg.BatchConcurrency
	}

	stderr := cmd.ErrOrStderr()
	runner := batch.NewRunner(d.pipeline(), concurrency, d.log)
	runner.OnDone = func(o batch.Outcome) {
		if o.Err != nil {
			fmt.Fprintln(stderr, theme.Bad.Render("✗ "+o.Job.Name)+"  "+theme.Hint.Render(o.Err.Error()))
			return
		}
		path := filepath.Join(outDir, o.Job.Name+".json")
		if err := writeLesson(cmd, path, o.Result.Lesson); err != nil {
			fmt.Fprintln(stderr, theme.Bad.Render("✗ "+o.Job.Name)+"  "+theme.Hint.Render(err.Error()))
			return
		}
		fmt.Fprintln(stderr, theme.Good.Render("✓ "+o.Job.Name)+"  "+
			theme.ForScore(o.Result.Quality.OverallScore).Render(fmt.Sprintf("%.1f", o.Result.Quality.OverallScore))+"  "+
			theme.Label.Render(path))
	}

	d.log.Info("batch started", "jobs", len(jobs), "concurrency", concurrency)
	outcomes, err := runner.Run(ctx, jobs)
	if err != nil {
		return err
	}

	failed := batch.Failed(outcomes)
	fmt.Fprintln(stderr, theme.Label.Render(fmt.Sprintf("%d of %d lessons generated", len(outcomes)-failed, len(outcomes))))
	if failed > 0 {
		return batch.ErrJobsFailed
	}
	return nil
}
