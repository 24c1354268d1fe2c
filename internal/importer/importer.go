package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"marginalia/internal/config"
	"marginalia/internal/delimited"
	"marginalia/internal/logging"
	"marginalia/internal/notifications"
	"marginalia/internal/resolve"
	"marginalia/internal/runlog"
	"marginalia/internal/services"
	"marginalia/internal/services/solr"
	"marginalia/internal/store"
)

// progressInterval is the row cadence for progress lines in the run log.
const progressInterval = 1000

// Stats aggregates the row counters for one import run.
type Stats struct {
	Processed  int64
	Comments   int64
	Ratings    int64
	Duplicates int64
	Unresolved int64
	Skipped    int64
}

// Importer reconciles annotation export rows against the discovery index
// and writes them into the catalog.
type Importer struct {
	opts     Options
	store    *store.Store
	resolver *resolve.Resolver
	notifier notifications.Service
	logger   *slog.Logger
}

// New constructs an importer whose collaborators are built from the
// configuration.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, opts Options) *Importer {
	opts.normalize()
	index := solr.New(cfg.Solr.URL, cfg.Solr.Core, time.Duration(cfg.Solr.RequestTimeout)*time.Second, logger)
	resolver := resolve.New(index, opts.Source, opts.IDFields, logger)
	return NewWithDependencies(opts, st, resolver, notifications.NewService(cfg), logger)
}

// NewWithDependencies allows injecting collaborators (used in tests).
func NewWithDependencies(opts Options, st *store.Store, resolver *resolve.Resolver, notifier notifications.Service, logger *slog.Logger) *Importer {
	opts.normalize()
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Importer{
		opts:     opts,
		store:    st,
		resolver: resolver,
		notifier: notifier,
		logger:   logging.WithComponent(logger, "importer"),
	}
}

// runContext carries the mutable state of one run through the row loop.
type runContext struct {
	log   *runlog.Logger
	norm  *normalizer
	stats Stats
}

// Run executes the import and reports its counters. The returned stats
// reflect progress up to the point of failure when err is non-nil.
func (imp *Importer) Run(ctx context.Context) (Stats, error) {
	if err := imp.opts.validate(); err != nil {
		return Stats{}, err
	}

	defaultDate := imp.opts.DefaultDate
	if defaultDate.IsZero() {
		defaultDate = time.Now()
	}
	defaultDate = defaultDate.UTC()

	lockPath := imp.store.Path() + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return Stats{}, services.Wrap(services.ErrTransient, "import", "acquire lock", "cannot acquire import lock", err)
	}
	if !locked {
		return Stats{}, fmt.Errorf("another import is already running (lock file %s)", lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			imp.logger.Warn("failed to release import lock", logging.Error(err))
		}
	}()

	run := &store.ImportRun{
		ID:        uuid.NewString(),
		Source:    imp.opts.Source,
		InputFile: imp.opts.InputPath,
		LogFile:   imp.opts.LogPath,
	}
	if err := imp.store.CreateRun(ctx, run); err != nil {
		return Stats{}, services.Wrap(services.ErrTransient, "import", "record run", "cannot record the run", err)
	}
	ctx = services.WithRunID(ctx, run.ID)
	logger := imp.logger.With(logging.String("run_id", run.ID))
	logger.Info("import run started",
		logging.String("source", imp.opts.Source),
		logging.String("input", imp.opts.InputPath))

	if imp.notifier != nil {
		if err := imp.notifier.NotifyRunStarted(ctx, imp.opts.Source, imp.opts.InputPath); err != nil {
			logger.Warn("start notification failed", logging.Error(err))
		}
	}

	rc := &runContext{
		log:  runlog.New(imp.opts.LogPath, imp.opts.Verbose),
		norm: newNormalizer(imp.opts, defaultDate, logger),
	}

	runErr := imp.execute(ctx, rc)

	finished := time.Now()
	run.Processed = rc.stats.Processed
	run.Comments = rc.stats.Comments
	run.Ratings = rc.stats.Ratings
	run.Duplicates = rc.stats.Duplicates
	run.Unresolved = rc.stats.Unresolved
	run.Skipped = rc.stats.Skipped

	if runErr != nil {
		run.MarkFailed(finished, services.Classify(runErr), runErr.Error())
		if err := imp.store.UpdateRun(ctx, run); err != nil {
			logger.Warn("failed to update run record", logging.Error(err))
		}
		// Best effort: when the fatal error is the run log itself, this
		// append fails the same way.
		_ = rc.log.Alert("Import failed: %v", runErr)
		if imp.notifier != nil {
			if err := imp.notifier.NotifyRunFailed(ctx, imp.opts.Source, runErr); err != nil {
				logger.Warn("failure notification failed", logging.Error(err))
			}
		}
		logger.Error("import run failed", logging.Error(runErr))
		return rc.stats, runErr
	}

	run.MarkCompleted(finished)
	if err := imp.store.UpdateRun(ctx, run); err != nil {
		return rc.stats, services.Wrap(services.ErrTransient, "import", "record run", "cannot record run completion", err)
	}
	if imp.notifier != nil {
		if err := imp.notifier.NotifyRunCompleted(ctx, notifications.RunSummary{
			Source:     imp.opts.Source,
			InputFile:  imp.opts.InputPath,
			Processed:  rc.stats.Processed,
			Comments:   rc.stats.Comments,
			Ratings:    rc.stats.Ratings,
			Duplicates: rc.stats.Duplicates,
			Unresolved: rc.stats.Unresolved,
			Skipped:    rc.stats.Skipped,
			Duration:   run.Duration(),
		}); err != nil {
			logger.Warn("completion notification failed", logging.Error(err))
		}
	}
	logger.Info("import run completed",
		logging.Int64("processed", rc.stats.Processed),
		logging.Int64("comments", rc.stats.Comments),
		logging.Int64("ratings", rc.stats.Ratings))
	return rc.stats, nil
}

func (imp *Importer) execute(ctx context.Context, rc *runContext) error {
	if err := imp.appendLog(rc.log.Alert("Importing annotations from %s for source %s", imp.opts.InputPath, imp.opts.Source)); err != nil {
		return err
	}

	file, err := os.Open(imp.opts.InputPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "import", "open input", fmt.Sprintf("cannot open %s", imp.opts.InputPath), err)
	}
	defer file.Close()

	input, err := delimited.DecodeReader(file, imp.opts.Encoding)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "import", "decode input", "unsupported input encoding", err)
	}

	reader := delimited.NewReader(input, imp.opts.Dialect)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return services.Wrap(services.ErrTransient, "import", "read input", fmt.Sprintf("after row %d", rc.stats.Processed), err)
		}

		rc.stats.Processed++
		rowNum := rc.stats.Processed
		if err := imp.processRow(services.WithRow(ctx, rowNum), rc, rowNum, fields); err != nil {
			return err
		}
		if rowNum%progressInterval == 0 {
			if err := imp.appendLog(rc.log.Alert("%d rows processed", rowNum)); err != nil {
				return err
			}
		}
	}

	return imp.appendLog(rc.log.Alert(
		"Completed: %d rows processed, %d comments and %d ratings imported (%d duplicates, %d unresolved, %d skipped)",
		rc.stats.Processed, rc.stats.Comments, rc.stats.Ratings,
		rc.stats.Duplicates, rc.stats.Unresolved, rc.stats.Skipped))
}

func (imp *Importer) processRow(ctx context.Context, rc *runContext, rowNum int64, fields []string) error {
	r, err := rc.norm.normalize(fields, rowNum)
	if err != nil {
		var skip *skipError
		if errors.As(err, &skip) {
			rc.stats.Skipped++
			return imp.appendLog(rc.log.Event("Row %d skipped: %s", rowNum, skip.reason))
		}
		return err
	}

	if r.id == "" {
		rc.stats.Unresolved++
		return imp.appendLog(rc.log.Event("Row %d: missing identifier", rowNum))
	}

	record, err := imp.resolver.Resolve(ctx, r.id)
	if err != nil {
		return err
	}
	if record == nil {
		rc.stats.Unresolved++
		return imp.appendLog(rc.log.Event("Row %d: identifier %q did not match any record", rowNum, r.id))
	}

	resource, err := imp.store.FindOrCreateResource(ctx, record.ID, imp.opts.Source, record.Title)
	if err != nil {
		rc.stats.Skipped++
		return imp.appendLog(rc.log.Event("Row %d: cannot create resource for record %s: %v", rowNum, record.ID, err))
	}

	if r.hasComment {
		existing, err := imp.store.CommentsForResource(ctx, resource.ID)
		if err != nil {
			return services.Wrap(services.ErrTransient, "import", "list comments", fmt.Sprintf("record %s", record.ID), err)
		}
		if containsComment(existing, r.created, r.comment) {
			rc.stats.Duplicates++
			return imp.appendLog(rc.log.Event("Row %d: duplicate comment for record %s", rowNum, record.ID))
		}
		comment, err := imp.store.AddComment(ctx, resource.ID, imp.opts.UserID, r.comment, r.created)
		if err != nil {
			return services.Wrap(services.ErrTransient, "import", "add comment", fmt.Sprintf("record %s", record.ID), err)
		}
		if err := imp.store.LinkComment(ctx, comment.ID, record.ID); err != nil {
			return services.Wrap(services.ErrTransient, "import", "link comment", fmt.Sprintf("record %s", record.ID), err)
		}
		rc.stats.Comments++
		if err := imp.appendLog(rc.log.Event("Row %d: added comment %d for record %s", rowNum, comment.ID, record.ID)); err != nil {
			return err
		}
	}

	if r.hasRating {
		if _, err := imp.store.AddRating(ctx, resource.ID, r.rating, r.created); err != nil {
			return services.Wrap(services.ErrTransient, "import", "add rating", fmt.Sprintf("record %s", record.ID), err)
		}
		rc.stats.Ratings++
		if err := imp.appendLog(rc.log.Event("Row %d: added rating %d for record %s", rowNum, r.rating, record.ID)); err != nil {
			return err
		}
	}

	return nil
}

// containsComment reports whether an existing comment matches the imported
// (created, text) pair exactly. The check is the row's idempotence guard
// across re-imports of the same file.
func containsComment(existing []*store.Comment, created time.Time, text string) bool {
	for _, comment := range existing {
		if comment.Created.Equal(created) && comment.Text == text {
			return true
		}
	}
	return false
}

// appendLog upgrades a run log write failure into a run-fatal error.
func (imp *Importer) appendLog(err error) error {
	if err == nil {
		return nil
	}
	return services.Wrap(services.ErrTransient, "import", "append log", "cannot append to the run log", err)
}
