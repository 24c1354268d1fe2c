package importer

import (
	"fmt"
	"strings"
	"time"

	"marginalia/internal/delimited"
	"marginalia/internal/resolve"
	"marginalia/internal/services"
)

// Options carries the parameters for a single import run. Values mirror the
// import command flags after configuration defaults have been applied.
type Options struct {
	// InputPath is the delimited export file to read.
	InputPath string
	// Source is the datasource the rows belong to, e.g. "helmet".
	Source string
	// LogPath is the run log file appended to during the run.
	LogPath string

	// DefaultDate substitutes for rows without a usable date. The zero
	// value means the run start time.
	DefaultDate time.Time
	// UserID attributes imported comments to a user; 0 leaves them
	// unattributed.
	UserID int64
	// IDFields lists the resolution strategies in order; empty means the
	// direct identifier lookup alone.
	IDFields []string
	// RatingMultiplier scales raw rating values onto the 0-100 scale; 0
	// means 1.
	RatingMultiplier float64

	// Column positions are 1-based; 0 disables the attribute for the run.
	IDColumn      int
	DateColumn    int
	CommentColumn int
	RatingColumn  int

	// Dialect configures the delimited reader.
	Dialect delimited.Dialect
	// Encoding names the input character encoding; empty means UTF-8.
	Encoding string

	// Verbose echoes ordinary run log events to the console.
	Verbose bool
}

func (o *Options) normalize() {
	o.InputPath = strings.TrimSpace(o.InputPath)
	o.Source = strings.TrimSpace(o.Source)
	o.LogPath = strings.TrimSpace(o.LogPath)
	o.Encoding = strings.TrimSpace(o.Encoding)
	if len(o.IDFields) == 0 {
		o.IDFields = []string{resolve.DirectField}
	}
	if o.RatingMultiplier == 0 {
		o.RatingMultiplier = 1
	}
}

func (o *Options) validate() error {
	if o.InputPath == "" {
		return services.Wrap(services.ErrValidation, "import", "validate options", "input file path is required", nil)
	}
	if o.Source == "" {
		return services.Wrap(services.ErrValidation, "import", "validate options", "source identifier is required", nil)
	}
	if o.LogPath == "" {
		return services.Wrap(services.ErrValidation, "import", "validate options", "log file path is required", nil)
	}
	if o.IDColumn <= 0 {
		return services.Wrap(services.ErrConfiguration, "import", "validate options", "id column must be configured", nil)
	}
	if o.DateColumn < 0 || o.CommentColumn < 0 || o.RatingColumn < 0 {
		return services.Wrap(services.ErrConfiguration, "import", "validate options", "column positions cannot be negative", nil)
	}
	if o.CommentColumn == 0 && o.RatingColumn == 0 {
		return services.Wrap(services.ErrConfiguration, "import", "validate options", "at least one of the comment and rating columns must be configured", nil)
	}
	if !delimited.SupportedEncoding(o.Encoding) {
		return services.Wrap(services.ErrConfiguration, "import", "validate options", fmt.Sprintf("unsupported input encoding %q", o.Encoding), nil)
	}
	return nil
}
