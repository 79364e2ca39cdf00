// Package pipeline generates a complete lesson: it builds the shared
// context once, runs every planned section through the regeneration
// controller in order, and assembles the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/llm"
	"github.com/abhisek/lessonforge/internal/logger"
	"github.com/abhisek/lessonforge/internal/quality"
	"github.com/abhisek/lessonforge/internal/regen"
	"github.com/abhisek/lessonforge/internal/sections"
	"github.com/abhisek/lessonforge/internal/sharedctx"
	"github.com/abhisek/lessonforge/internal/validate"
)

// Config tunes lesson generation.
type Config struct {
	Sections    sections.Config
	MaxAttempts int

	// ExtractThemes asks the model for extra themes when building the
	// shared context.
	ExtractThemes bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Sections:      sections.DefaultConfig(),
		MaxAttempts:   regen.DefaultMaxAttempts,
		ExtractThemes: true,
	}
}

// Result is a generated lesson and its quality report.
type Result struct {
	Lesson  *lesson.Lesson `json:"lesson"`
	Quality quality.Report `json:"quality"`
}

// Progress is emitted after every finished section.
type Progress struct {
	LessonID string
	Section  lesson.Kind
	Index    int
	Total    int
	Score    int
	Attempts int
	Outcome  string
	Elapsed  time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder persists every run, successful or not.
func WithRecorder(r RunRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithProgress registers a callback for finished sections. It is called
// from the generating goroutine.
func WithProgress(fn func(Progress)) Option {
	return func(s *Service) { s.progress = fn }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// Service generates lessons. It keeps no per-lesson state, so one Service
// may serve concurrent requests.
type Service struct {
	client     *llm.Client
	cfg        Config
	builder    *sharedctx.Builder
	set        *sections.Set
	validators *validate.Registry
	controller *regen.Controller
	recorder   RunRecorder
	progress   func(Progress)
	log        *logger.Logger
	now        func() time.Time
	newID      func() string
}

// NewService wires a lesson pipeline around client.
func NewService(client *llm.Client, cfg Config, opts ...Option) *Service {
	s := &Service{
		client: client,
		cfg:    cfg,
		log:    logger.Nop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	var extractor sharedctx.ThemeExtractor
	if cfg.ExtractThemes {
		extractor = sharedctx.NewLLMThemeExtractor(client)
	}
	s.builder = sharedctx.NewBuilder(extractor, s.log)
	s.set = sections.NewSet(client, cfg.Sections, s.log)
	s.validators = validate.NewRegistry()
	s.controller = regen.NewController(s.validators, cfg.MaxAttempts, s.log)
	return s
}

// Generate builds one lesson. Invalid input is returned as
// *lesson.RequestError before any model call; a section that cannot ship
// is returned as *LessonError.
func (s *Service) Generate(ctx context.Context, req lesson.Request, ext *lesson.Extraction) (*Result, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ext.Validate(); err != nil {
		return nil, err
	}

	id := s.newID()
	ctx = llm.WithLessonID(ctx, id)
	log := s.log.With("lesson_id", id)
	started := s.now()

	tracker := quality.NewTracker()
	tracker.Reset(id, req.LessonType)

	sc, err := s.builder.Build(ctx, sharedctx.Input{
		SourceText:     req.SourceText,
		LessonType:     req.LessonType,
		Level:          req.Level,
		TargetLanguage: req.TargetLanguage,
		SourceLanguage: req.SourceLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("build shared context: %w", err)
	}
	log.Info("lesson started",
		"type", string(req.LessonType),
		"level", string(req.Level),
		"vocabulary", len(sc.Vocabulary()),
		"themes", len(sc.Themes()),
	)

	plan := req.LessonType.Plan()
	var done lesson.Sections
	for i, k := range plan {
		if err := ctx.Err(); err != nil {
			return nil, s.fail(ctx, req, tracker, started, lessonError(id, k, done, err))
		}

		if k == lesson.KindTitle {
			title := s.title(ctx, sc, done, ext, tracker)
			done.Set(title)
			s.emit(id, i, len(plan), tracker)
			continue
		}

		gen, ok := s.set.For(k)
		if !ok {
			return nil, fmt.Errorf("no generator for section %q", k)
		}
		out, err := s.controller.Run(ctx, gen, sections.Input{Context: sc, Prior: done, Metadata: ext})
		if err != nil {
			return nil, s.fail(ctx, req, tracker, started, lessonError(id, k, done, err))
		}
		done.Set(out.Section)
		tracker.Record(recordFrom(k, out))
		s.emit(id, i, len(plan), tracker)
	}

	l := &lesson.Lesson{
		ID:             id,
		FormatVersion:  lesson.FormatVersion,
		LessonType:     req.LessonType,
		Level:          sc.Level(),
		TargetLanguage: req.TargetLanguage,
		Title:          titleOf(done, sc, ext),
		Sections:       done,
		Provenance:     lesson.ProvenanceFrom(ext),
		Topics:         &lesson.Topics{Vocabulary: sc.Vocabulary(), Themes: sc.Themes()},
		CreatedAt:      s.now().UTC(),
	}
	rep := tracker.Report()
	log.Info("lesson finished",
		"sections", done.Len(),
		"score", rep.OverallScore,
		"regenerations", rep.Regenerations,
		"duration_ms", rep.TotalDurationMs,
	)

	s.save(ctx, Run{Request: req, Lesson: l, Report: rep, Duration: s.now().Sub(started)})
	return &Result{Lesson: l, Quality: rep}, nil
}

// title runs the fallback ladder. It never fails.
func (s *Service) title(ctx context.Context, sc *sharedctx.Context, done lesson.Sections, ext *lesson.Extraction, tracker *quality.Tracker) lesson.Title {
	start := s.now()
	t := s.set.Title().Title(ctx, sections.Input{Context: sc, Prior: done, Metadata: ext, Attempt: 1})
	res := s.validators.Validate(t, sc, done)

	rec := quality.Record{
		Section:  lesson.KindTitle,
		Score:    res.Score,
		Attempts: 1,
		Duration: s.now().Sub(start),
		Issues:   len(res.Issues),
		Warnings: len(res.Warnings),
		Outcome:  quality.OutcomeAccepted,
	}
	if t.Source != lesson.TitleFromAI {
		rec.Notes = append(rec.Notes, fmt.Sprintf("title fell back to %s", t.Source))
	}
	tracker.Record(rec)
	return t
}

// titleOf returns the lesson title, running the generic rung when the plan
// had no title section.
func titleOf(done lesson.Sections, sc *sharedctx.Context, ext *lesson.Extraction) string {
	if s, ok := done.Get(lesson.KindTitle); ok {
		if t, ok := s.(lesson.Title); ok && t.Text != "" {
			return t.Text
		}
	}
	return sections.GenericTitle(sections.Input{Context: sc, Metadata: ext})
}

func recordFrom(k lesson.Kind, out *regen.Outcome) quality.Record {
	rec := quality.Record{
		Section:     k,
		Score:       out.Result.Score,
		Attempts:    out.Attempts,
		Duration:    out.Duration,
		Issues:      len(out.Result.Issues),
		Warnings:    len(out.Result.Warnings) + len(out.Warnings),
		Regenerated: out.Regenerated(),
		Outcome:     out.State.String(),
	}
	rec.Notes = append(rec.Notes, out.Warnings...)
	if out.State == regen.Exhausted {
		rec.Notes = append(rec.Notes, out.Result.Issues...)
	}
	return rec
}

func (s *Service) emit(id string, i, total int, tracker *quality.Tracker) {
	if s.progress == nil {
		return
	}
	rep := tracker.Report()
	last := rep.Sections[len(rep.Sections)-1]
	s.progress(Progress{
		LessonID: id,
		Section:  last.Section,
		Index:    i + 1,
		Total:    total,
		Score:    last.Score,
		Attempts: last.Attempts,
		Outcome:  last.Outcome,
		Elapsed:  time.Duration(rep.TotalDurationMs) * time.Millisecond,
	})
}

// fail records the failed run and returns le.
func (s *Service) fail(ctx context.Context, req lesson.Request, tracker *quality.Tracker, started time.Time, le *LessonError) error {
	s.log.Error("lesson failed",
		"lesson_id", le.LessonID,
		"section", string(le.Section),
		"class", le.Class,
		"completed", len(le.Completed),
		"error", errString(le.Err),
	)
	// The caller's context may be the reason for failing; the record
	// should still be written.
	s.save(context.WithoutCancel(ctx), Run{
		Request:  req,
		LessonID: le.LessonID,
		Report:   tracker.Report(),
		Err:      le,
		Duration: s.now().Sub(started),
	})
	return le
}

func (s *Service) save(ctx context.Context, run Run) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordRun(ctx, run); err != nil {
		s.log.Warn("failed to record lesson run", "error", err.Error())
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
