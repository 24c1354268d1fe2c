package testsupport

import (
	"path/filepath"
	"testing"

	"marginalia/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Solr.URL = "http://127.0.0.1:8983/solr"
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSolrURL overrides the Solr base URL on the test config.
func WithSolrURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Solr.URL = url
	}
}

// WithIDFields sets the resolution field order on the test config.
func WithIDFields(fields ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Import.IDFields = fields
	}
}

// WithRatingMultiplier sets the rating scale factor on the test config.
func WithRatingMultiplier(multiplier float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Import.RatingMultiplier = multiplier
	}
}

// WithEncoding sets the input character encoding on the test config.
func WithEncoding(encoding string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Import.Encoding = encoding
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
