package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateRun inserts a new import run row. The run keeps its caller-assigned
// identifier so log lines and notifications can reference it immediately.
func (s *Store) CreateRun(ctx context.Context, run *ImportRun) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.ID == "" {
		return errors.New("run id is empty")
	}
	if run.Status == "" {
		run.Status = RunStatusRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO import_runs (
            id, source, input_file, log_file, status, started_at,
            processed, comments, ratings, duplicates, unresolved, skipped
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Source,
		run.InputFile,
		run.LogFile,
		run.Status,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Processed,
		run.Comments,
		run.Ratings,
		run.Duplicates,
		run.Unresolved,
		run.Skipped,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// UpdateRun persists changes to an existing import run.
func (s *Store) UpdateRun(ctx context.Context, run *ImportRun) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE import_runs
         SET source = ?, input_file = ?, log_file = ?, status = ?,
             started_at = ?, finished_at = ?, processed = ?, comments = ?,
             ratings = ?, duplicates = ?, unresolved = ?, skipped = ?,
             failure_kind = ?, error_message = ?
         WHERE id = ?`,
		run.Source,
		run.InputFile,
		run.LogFile,
		run.Status,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		nullableTime(run.FinishedAt),
		run.Processed,
		run.Comments,
		run.Ratings,
		run.Duplicates,
		run.Unresolved,
		run.Skipped,
		nullableString(run.FailureKind),
		nullableString(run.ErrorMessage),
		run.ID,
	); err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// GetRun fetches an import run by identifier.
func (s *Store) GetRun(ctx context.Context, id string) (*ImportRun, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM import_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// RecentRuns returns import runs newest first, up to limit. A non-positive
// limit returns every run.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*ImportRun, error) {
	var (
		rows *sql.Rows
		err  error
	)

	query := `SELECT ` + runColumns + ` FROM import_runs ORDER BY started_at DESC, id DESC`
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*ImportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
