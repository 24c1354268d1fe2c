package config

const (
	defaultDataDir            = "~/.local/share/marginalia"
	defaultLogDir             = "~/.local/share/marginalia/logs"
	defaultSolrCore           = "biblio"
	defaultSolrRequestTimeout = 30
	defaultSeparator          = ","
	defaultEnclosure          = "\""
	defaultEscape             = "\\"
	defaultEncoding           = "utf-8"
	defaultRatingMultiplier   = 1.0
	defaultIDColumn           = 1
	defaultDateColumn         = 2
	defaultCommentColumn      = 3
	defaultRatingColumn       = 4
	defaultLogFormat          = "auto"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 60
	defaultLogRetentionMin    = 10
	defaultNotifyTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Solr: Solr{
			Core:           defaultSolrCore,
			RequestTimeout: defaultSolrRequestTimeout,
		},
		Import: Import{
			Separator:        defaultSeparator,
			Enclosure:        defaultEnclosure,
			Escape:           defaultEscape,
			Encoding:         defaultEncoding,
			RatingMultiplier: defaultRatingMultiplier,
			IDFields:         []string{"id"},
			IDColumn:         defaultIDColumn,
			DateColumn:       defaultDateColumn,
			CommentColumn:    defaultCommentColumn,
			RatingColumn:     defaultRatingColumn,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Completion:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format:            defaultLogFormat,
			Level:             defaultLogLevel,
			RetentionDays:     defaultLogRetentionDays,
			RetentionMinFiles: defaultLogRetentionMin,
		},
	}
}
