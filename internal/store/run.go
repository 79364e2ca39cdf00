package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// runRepo implements RunRepo on database/sql.
type runRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// SaveRun inserts run, or replaces the stored run with the same lesson ID.
// ID, Sequence and CreatedAt are filled in on success.
func (r *runRepo) SaveRun(ctx context.Context, run *RunRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	now := time.Now()
	report := string(run.Report)
	if report == "" {
		report = "{}"
	}

	res, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO lesson_runs (
		sequence, created_at, lesson_id, lesson_type, level, target_language,
		title, status, failed_section, failure_class, overall_score,
		regenerations, duration_ms, report
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, now.UnixMilli(), run.LessonID, run.LessonType, run.Level,
		run.TargetLanguage, run.Title, run.Status, run.FailedSection,
		run.FailureClass, run.OverallScore, run.Regenerations, run.DurationMs,
		report,
	)
	if err != nil {
		return fmt.Errorf("save lesson run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("lesson run id: %w", err)
	}
	run.ID = id
	run.Sequence = seqNum
	run.CreatedAt = time.UnixMilli(now.UnixMilli())
	return nil
}

const runColumns = `id, sequence, created_at, lesson_id, lesson_type, level,
	target_language, title, status, failed_section, failure_class,
	overall_score, regenerations, duration_ms, report`

func (r *runRepo) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	q := "SELECT " + runColumns + " FROM lesson_runs ORDER BY sequence DESC"
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query lesson runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

func (r *runRepo) GetRun(ctx context.Context, lessonID string) (*RunRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM lesson_runs WHERE lesson_id = ?", lessonID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

func (r *runRepo) Prune(ctx context.Context, keep int) error {
	// Find the sequence threshold: the Nth most recent run.
	var threshold int64
	err := r.db.QueryRowContext(ctx,
		`SELECT sequence FROM lesson_runs ORDER BY sequence DESC LIMIT 1 OFFSET ?`, keep,
	).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep runs exist
	}
	if err != nil {
		return fmt.Errorf("query runs for prune: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM lesson_runs WHERE sequence <= ?`, threshold); err != nil {
		return fmt.Errorf("prune lesson runs: %w", err)
	}
	return nil
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		run     RunRecord
		created int64
		report  string
	)
	err := row.Scan(&run.ID, &run.Sequence, &created, &run.LessonID, &run.LessonType,
		&run.Level, &run.TargetLanguage, &run.Title, &run.Status, &run.FailedSection,
		&run.FailureClass, &run.OverallScore, &run.Regenerations, &run.DurationMs, &report)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan lesson run: %w", err)
	}
	run.CreatedAt = time.UnixMilli(created)
	run.Report = []byte(report)
	return &run, nil
}
