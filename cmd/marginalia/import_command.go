package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"marginalia/internal/config"
	"marginalia/internal/importer"
	"marginalia/internal/logging"
	"marginalia/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		source           string
		logPath          string
		defaultDate      string
		userID           int64
		idFields         []string
		ratingMultiplier float64
		idColumn         int
		dateColumn       int
		commentColumn    int
		ratingColumn     int
		separator        string
		enclosure        string
		escape           string
		encoding         string
		verbose          bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import comments and ratings from a delimited export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			inputPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			opts := importer.Options{
				InputPath:        inputPath,
				Source:           source,
				UserID:           userID,
				IDFields:         cfg.Import.IDFields,
				RatingMultiplier: cfg.Import.RatingMultiplier,
				IDColumn:         cfg.Import.IDColumn,
				DateColumn:       cfg.Import.DateColumn,
				CommentColumn:    cfg.Import.CommentColumn,
				RatingColumn:     cfg.Import.RatingColumn,
				Encoding:         cfg.Import.Encoding,
				Verbose:          verbose,
			}

			// Flags override config only when set, so a config file can
			// redefine the defaults without pinning every run to them.
			flags := cmd.Flags()
			if flags.Changed("id-fields") {
				opts.IDFields = idFields
			}
			if flags.Changed("rating-multiplier") {
				opts.RatingMultiplier = ratingMultiplier
			}
			if flags.Changed("id-column") {
				opts.IDColumn = idColumn
			}
			if flags.Changed("date-column") {
				opts.DateColumn = dateColumn
			}
			if flags.Changed("comment-column") {
				opts.CommentColumn = commentColumn
			}
			if flags.Changed("rating-column") {
				opts.RatingColumn = ratingColumn
			}
			if flags.Changed("encoding") {
				opts.Encoding = encoding
			}

			sep := cfg.Import.Separator
			if flags.Changed("separator") {
				sep = separator
			}
			enc := cfg.Import.Enclosure
			if flags.Changed("enclosure") {
				enc = enclosure
			}
			esc := cfg.Import.Escape
			if flags.Changed("escape") {
				esc = escape
			}
			opts.Dialect, err = parseDialect(sep, enc, esc)
			if err != nil {
				return err
			}

			if trimmed := strings.TrimSpace(defaultDate); trimmed != "" {
				parsed, err := parseDefaultDate(trimmed)
				if err != nil {
					return err
				}
				opts.DefaultDate = parsed
			}

			opts.LogPath = strings.TrimSpace(logPath)
			if opts.LogPath == "" {
				stamp := time.Now().UTC().Format("20060102T150405.000Z")
				opts.LogPath = filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("import-%s.log", stamp))
			} else if opts.LogPath, err = config.ExpandPath(opts.LogPath); err != nil {
				return err
			}

			return runImport(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Datasource the rows belong to (required)")
	cmd.Flags().StringVar(&logPath, "log", "", "Run log file (default: import-<timestamp>.log in the log directory)")
	cmd.Flags().StringVar(&defaultDate, "default-date", "", "Timestamp for rows without a date (YYYY-MM-DD or RFC 3339; default: run start)")
	cmd.Flags().Int64Var(&userID, "user", 0, "User identifier to attribute comments to (0 leaves them unattributed)")
	cmd.Flags().StringSliceVar(&idFields, "id-fields", nil, "Resolution fields tried in order")
	cmd.Flags().Float64Var(&ratingMultiplier, "rating-multiplier", 0, "Factor scaling raw ratings onto the 0-100 scale")
	cmd.Flags().IntVar(&idColumn, "id-column", 0, "1-based identifier column")
	cmd.Flags().IntVar(&dateColumn, "date-column", 0, "1-based date column (0 disables)")
	cmd.Flags().IntVar(&commentColumn, "comment-column", 0, "1-based comment column (0 disables)")
	cmd.Flags().IntVar(&ratingColumn, "rating-column", 0, "1-based rating column (0 disables)")
	cmd.Flags().StringVar(&separator, "separator", "", "Field separator byte")
	cmd.Flags().StringVar(&enclosure, "enclosure", "", "Field enclosure byte")
	cmd.Flags().StringVar(&escape, "escape", "", "Escape byte (empty disables escape handling)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Input character encoding (utf-8, latin1, iso-8859-15, windows-1252)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Echo every run log event to the console")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runImport(cmd *cobra.Command, cfg *config.Config, opts importer.Options) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, cfg.Logging.RetentionMinFiles,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "import-*.log", Exclude: []string{opts.LogPath}},
	)

	if dir := filepath.Dir(opts.LogPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create run log directory %q: %w", dir, err)
		}
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open catalog store", logging.Error(err))
		return err
	}
	defer st.Close()

	imp := importer.New(cfg, st, logger, opts)
	if _, err := imp.Run(signalCtx); err != nil {
		return err
	}
	return nil
}
