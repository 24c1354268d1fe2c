package store

import (
	"database/sql"
	"errors"
	"time"
)

const resourceColumns = "id, record_id, source, title, created"

const commentColumns = "id, resource_id, user_id, comment, created"

const ratingColumns = "id, resource_id, value, created"

const runColumns = "id, source, input_file, log_file, status, started_at, finished_at, processed, comments, ratings, duplicates, unresolved, skipped, failure_kind, error_message"

func scanResource(scanner interface{ Scan(dest ...any) error }) (*Resource, error) {
	var (
		id         int64
		recordID   string
		source     string
		title      sql.NullString
		createdRaw sql.NullString
	)

	if err := scanner.Scan(&id, &recordID, &source, &title, &createdRaw); err != nil {
		return nil, err
	}

	resource := &Resource{
		ID:       id,
		RecordID: recordID,
		Source:   source,
		Title:    title.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		resource.Created = created
	}
	return resource, nil
}

func scanComment(scanner interface{ Scan(dest ...any) error }) (*Comment, error) {
	var (
		id         int64
		resourceID int64
		userID     sql.NullInt64
		text       string
		createdRaw sql.NullString
	)

	if err := scanner.Scan(&id, &resourceID, &userID, &text, &createdRaw); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:         id,
		ResourceID: resourceID,
		Text:       text,
	}
	if userID.Valid {
		comment.UserID = userID.Int64
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		comment.Created = created
	}
	return comment, nil
}

func scanRating(scanner interface{ Scan(dest ...any) error }) (*Rating, error) {
	var (
		id         int64
		resourceID int64
		value      int
		createdRaw sql.NullString
	)

	if err := scanner.Scan(&id, &resourceID, &value, &createdRaw); err != nil {
		return nil, err
	}

	rating := &Rating{
		ID:         id,
		ResourceID: resourceID,
		Value:      value,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		rating.Created = created
	}
	return rating, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*ImportRun, error) {
	var (
		id           string
		source       string
		inputFile    string
		logFile      sql.NullString
		statusStr    string
		startedRaw   sql.NullString
		finishedRaw  sql.NullString
		processed    int64
		comments     int64
		ratings      int64
		duplicates   int64
		unresolved   int64
		skipped      int64
		failureKind  sql.NullString
		errorMessage sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&source,
		&inputFile,
		&logFile,
		&statusStr,
		&startedRaw,
		&finishedRaw,
		&processed,
		&comments,
		&ratings,
		&duplicates,
		&unresolved,
		&skipped,
		&failureKind,
		&errorMessage,
	); err != nil {
		return nil, err
	}

	run := &ImportRun{
		ID:           id,
		Source:       source,
		InputFile:    inputFile,
		LogFile:      logFile.String,
		Status:       RunStatus(statusStr),
		Processed:    processed,
		Comments:     comments,
		Ratings:      ratings,
		Duplicates:   duplicates,
		Unresolved:   unresolved,
		Skipped:      skipped,
		FailureKind:  failureKind.String,
		ErrorMessage: errorMessage.String,
	}
	if started, err := parseTimeString(startedRaw.String); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt64(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
