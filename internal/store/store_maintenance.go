package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var catalogTables = []string{"resource", "comments", "comments_record", "ratings", "import_runs"}

// CheckHealth returns diagnostic information about the catalog database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("catalog database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat catalog database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("catalog database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("catalog database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping catalog database: %w", err)
	}
	health.DatabaseReadable = true

	row := s.db.QueryRowContext(connCtx, "PRAGMA journal_mode")
	var journalMode string
	if err := row.Scan(&journalMode); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("query journal mode: %w", err)
	}
	health.JournalMode = strings.ToLower(journalMode)

	row = s.db.QueryRowContext(connCtx, "PRAGMA foreign_keys")
	var foreignKeys int
	if err := row.Scan(&foreignKeys); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("query foreign keys: %w", err)
	}
	health.ForeignKeysOn = foreignKeys == 1

	present := make(map[string]struct{}, len(catalogTables))
	rows, err := s.db.QueryContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("scan table name: %w", err)
		}
		present[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("iterate tables: %w", err)
	}

	for _, table := range catalogTables {
		if _, ok := present[table]; ok {
			health.TablesPresent = append(health.TablesPresent, table)
		} else {
			health.MissingTables = append(health.MissingTables, table)
		}
	}

	counts := []struct {
		table string
		dest  *int
	}{
		{"resource", &health.Resources},
		{"comments", &health.Comments},
		{"ratings", &health.Ratings},
		{"import_runs", &health.Runs},
	}
	for _, count := range counts {
		if _, ok := present[count.table]; !ok {
			continue
		}
		row := s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM "+count.table)
		if err := row.Scan(count.dest); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count %s: %w", count.table, err)
		}
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
