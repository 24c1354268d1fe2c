package main

import (
	"fmt"
	"time"

	"marginalia/internal/delimited"
)

var defaultDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDefaultDate(value string) (time.Time, error) {
	for _, layout := range defaultDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --default-date %q (use YYYY-MM-DD or RFC 3339)", value)
}

func parseDialect(separator, enclosure, escape string) (delimited.Dialect, error) {
	if len(separator) != 1 {
		return delimited.Dialect{}, fmt.Errorf("separator must be a single byte, got %q", separator)
	}
	if len(enclosure) != 1 {
		return delimited.Dialect{}, fmt.Errorf("enclosure must be a single byte, got %q", enclosure)
	}
	if len(escape) > 1 {
		return delimited.Dialect{}, fmt.Errorf("escape must be a single byte or empty, got %q", escape)
	}
	dialect := delimited.Dialect{Separator: separator[0], Enclosure: enclosure[0]}
	if escape != "" {
		dialect.Escape = escape[0]
	}
	return dialect, nil
}
