package main

import (
	"strconv"
	"strings"
	"time"

	"marginalia/internal/store"
	"marginalia/internal/textutil"
)

const errorExcerptLen = 48

func buildRunRows(runs []*store.ImportRun) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortRunID(run.ID),
			run.Source,
			formatStatusLabel(string(run.Status)),
			formatDisplayTime(run.StartedAt),
			formatRunDuration(run),
			strconv.FormatInt(run.Processed, 10),
			strconv.FormatInt(run.Comments, 10),
			strconv.FormatInt(run.Ratings, 10),
			strconv.FormatInt(run.Duplicates, 10),
			strconv.FormatInt(run.Unresolved, 10),
			strconv.FormatInt(run.Skipped, 10),
			textutil.Excerpt(run.ErrorMessage, errorExcerptLen),
		})
	}
	return rows
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	parts := strings.Split(status, "_")
	for i, part := range parts {
		lower := strings.ToLower(part)
		if lower == "" {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

func formatDisplayTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format("2006-01-02 15:04")
}

func formatRunDuration(run *store.ImportRun) string {
	if run.FinishedAt == nil {
		return "-"
	}
	duration := run.Duration().Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	return duration.String()
}
