package store

import (
	"strings"
	"time"
)

// Resource is a canonical catalog record that comments and ratings attach to.
// The (RecordID, Source) pair is unique.
type Resource struct {
	ID       int64
	RecordID string
	Source   string
	Title    string
	Created  time.Time
}

// Comment is a free-text annotation attached to a resource. UserID is zero for
// anonymous imports.
type Comment struct {
	ID         int64
	ResourceID int64
	UserID     int64
	Text       string
	Created    time.Time
}

// Rating is a 1-100 score attached to a resource.
type Rating struct {
	ID         int64
	ResourceID int64
	Value      int
	Created    time.Time
}

// RunStatus represents the lifecycle of an import run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

var allRunStatuses = []RunStatus{
	RunStatusRunning,
	RunStatusCompleted,
	RunStatusFailed,
}

var runStatusSet = func() map[RunStatus]struct{} {
	set := make(map[RunStatus]struct{}, len(allRunStatuses))
	for _, status := range allRunStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllRunStatuses returns the ordered list of known run statuses.
func AllRunStatuses() []RunStatus {
	cp := make([]RunStatus, len(allRunStatuses))
	copy(cp, allRunStatuses)
	return cp
}

// ParseRunStatus converts a string into a known RunStatus.
func ParseRunStatus(value string) (RunStatus, bool) {
	normalized := RunStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := runStatusSet[normalized]
	return normalized, ok
}

// ImportRun records a single importer invocation and its outcome counters.
type ImportRun struct {
	ID           string
	Source       string
	InputFile    string
	LogFile      string
	Status       RunStatus
	StartedAt    time.Time
	FinishedAt   *time.Time
	Processed    int64
	Comments     int64
	Ratings      int64
	Duplicates   int64
	Unresolved   int64
	Skipped      int64
	FailureKind  string
	ErrorMessage string
}

// MarkCompleted transitions the run to its terminal success state.
func (r *ImportRun) MarkCompleted(finished time.Time) {
	r.Status = RunStatusCompleted
	finished = finished.UTC()
	r.FinishedAt = &finished
	r.FailureKind = ""
	r.ErrorMessage = ""
}

// MarkFailed transitions the run to its terminal failure state.
func (r *ImportRun) MarkFailed(finished time.Time, kind, message string) {
	r.Status = RunStatusFailed
	finished = finished.UTC()
	r.FinishedAt = &finished
	r.FailureKind = kind
	r.ErrorMessage = message
}

// Duration reports how long the run took, or the zero duration while the run
// is still open.
func (r *ImportRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// DatabaseHealth captures diagnostic information about the catalog database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	JournalMode      string
	ForeignKeysOn    bool
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	Resources        int
	Comments         int
	Ratings          int
	Runs             int
	Error            string
}
