package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// RetentionTarget specifies a directory and filename pattern to prune.
type RetentionTarget struct {
	Dir     string
	Pattern string
	Exclude []string
}

// CleanupOldLogs removes files matching the provided targets that are older
// than retentionDays, always keeping the newest minFiles per target. A
// retentionDays value of 0 disables pruning.
func CleanupOldLogs(logger *slog.Logger, retentionDays, minFiles int, targets ...RetentionTarget) {
	if retentionDays <= 0 {
		return
	}
	if minFiles < 0 {
		minFiles = 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	for _, target := range targets {
		dir := strings.TrimSpace(target.Dir)
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		exclusions := make(map[string]struct{})
		for _, path := range target.Exclude {
			if trimmed := strings.TrimSpace(path); trimmed != "" {
				if abs, err := filepath.Abs(trimmed); err == nil {
					exclusions[abs] = struct{}{}
				}
			}
		}

		type candidate struct {
			path    string
			modTime time.Time
		}
		var candidates []candidate
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if pat := strings.TrimSpace(target.Pattern); pat != "" {
				matched, err := filepath.Match(pat, name)
				if err != nil || !matched {
					continue
				}
			}
			fullPath := filepath.Join(dir, name)
			if abs, err := filepath.Abs(fullPath); err == nil {
				fullPath = abs
			}
			if _, skip := exclusions[fullPath]; skip {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			candidates = append(candidates, candidate{path: fullPath, modTime: info.ModTime()})
		}

		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].modTime.After(candidates[j].modTime)
		})

		for i, cand := range candidates {
			if i < minFiles {
				continue
			}
			if !cand.modTime.Before(cutoff) {
				continue
			}
			if err := os.Remove(cand.path); err != nil {
				if logger != nil {
					logger.Warn("log retention remove failed", String("path", cand.path), Error(err))
				}
				continue
			}
			if logger != nil {
				logger.Debug("log pruned", String("path", cand.path))
			}
		}
	}
}
