package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/pipeline"
	"github.com/abhisek/lessonforge/internal/ui/report"
	"github.com/abhisek/lessonforge/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Generate a lesson from a source text",
	Long: `Generate a lesson from a text or HTML file, or from stdin when no file
is given. The lesson JSON goes to stdout (or --out); progress and the
quality report go to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringP("type", "t", string(lesson.TypeGeneral), "Lesson type: discussion, grammar, vocabulary, pronunciation, travel, business, general")
	f.StringP("level", "l", string(cefr.B1), "CEFR level A1-C1")
	f.String("target", "English", "Language being taught")
	f.String("source-lang", "", "Learner's first language")
	f.String("title", "", "Page title from the extractor")
	f.String("url", "", "Source URL")
	f.String("author", "", "Source author")
	f.String("domain", "", "Source site domain")
	f.StringP("out", "o", "", "Write the lesson JSON to this file instead of stdout")
	f.Bool("no-report", false, "Do not print the quality report")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	text, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	typ, _ := f.GetString("type")
	level, _ := f.GetString("level")
	target, _ := f.GetString("target")
	sourceLang, _ := f.GetString("source-lang")
	title, _ := f.GetString("title")
	url, _ := f.GetString("url")
	author, _ := f.GetString("author")
	domain, _ := f.GetString("domain")
	out, _ := f.GetString("out")
	noReport, _ := f.GetBool("no-report")

	ctx := cmd.Context()
	d, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	stderr := cmd.ErrOrStderr()
	svc := d.pipeline(pipeline.WithProgress(func(p pipeline.Progress) {
		fmt.Fprintln(stderr, theme.Label.Render(fmt.Sprintf("[%d/%d] %-18s score %3d  attempts %d  %s",
			p.Index, p.Total, p.Section, p.Score, p.Attempts, p.Outcome)))
	}))

	req := lesson.Request{
		SourceText:     text,
		LessonType:     lesson.Type(typ),
		Level:          cefr.Level(level),
		TargetLanguage: target,
		SourceLanguage: sourceLang,
	}
	ext := &lesson.Extraction{
		Text:      text,
		Title:     title,
		Author:    author,
		Domain:    domain,
		SourceURL: url,
	}

	res, err := svc.Generate(ctx, req, ext)
	if err != nil {
		var le *pipeline.LessonError
		if errors.As(err, &le) {
			fmt.Fprintln(stderr, report.Failure(le))
		}
		return err
	}

	if err := writeLesson(cmd, out, res.Lesson); err != nil {
		return err
	}
	if !noReport {
		fmt.Fprintln(stderr, report.Quality(res.Lesson.Title, res.Quality))
	}
	return nil
}

func readSource(cmd *cobra.Command, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}

func writeLesson(cmd *cobra.Command, path string, l *lesson.Lesson) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lesson: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write lesson: %w", err)
	}
	return nil
}
