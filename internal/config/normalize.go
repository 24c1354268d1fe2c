package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSolr()
	c.normalizeImport()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSolr() {
	if c.Solr.URL == "" {
		if value, ok := os.LookupEnv("MARGINALIA_SOLR_URL"); ok {
			c.Solr.URL = value
		}
	}
	c.Solr.URL = strings.TrimRight(strings.TrimSpace(c.Solr.URL), "/")
	c.Solr.Core = strings.TrimSpace(c.Solr.Core)
	if c.Solr.Core == "" {
		c.Solr.Core = defaultSolrCore
	}
	if c.Solr.RequestTimeout <= 0 {
		c.Solr.RequestTimeout = defaultSolrRequestTimeout
	}
}

func (c *Config) normalizeImport() {
	if c.Import.Separator == "" {
		c.Import.Separator = defaultSeparator
	}
	if c.Import.Enclosure == "" {
		c.Import.Enclosure = defaultEnclosure
	}
	c.Import.Encoding = strings.ToLower(strings.TrimSpace(c.Import.Encoding))
	if c.Import.Encoding == "" {
		c.Import.Encoding = defaultEncoding
	}
	// Zero means unset; negative multipliers pass through and reject every
	// rated row via the range check, matching the flag behavior.
	if c.Import.RatingMultiplier == 0 {
		c.Import.RatingMultiplier = defaultRatingMultiplier
	}
	if len(c.Import.IDFields) == 0 {
		c.Import.IDFields = []string{"id"}
	} else {
		fields := make([]string, 0, len(c.Import.IDFields))
		seen := make(map[string]struct{}, len(c.Import.IDFields))
		for _, field := range c.Import.IDFields {
			trimmed := strings.TrimSpace(field)
			if trimmed == "" {
				continue
			}
			if _, exists := seen[trimmed]; exists {
				continue
			}
			seen[trimmed] = struct{}{}
			fields = append(fields, trimmed)
		}
		if len(fields) == 0 {
			fields = []string{"id"}
		}
		c.Import.IDFields = fields
	}
}

func (c *Config) normalizeNotifications() {
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("MARGINALIA_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "auto":
		c.Logging.Format = "auto"
	case "console", "json":
	default:
		c.Logging.Format = "auto"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	if c.Logging.RetentionMinFiles < 0 {
		c.Logging.RetentionMinFiles = 0
	}
}
