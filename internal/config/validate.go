package config

import (
	"errors"
	"fmt"
	"net/url"

	"marginalia/internal/delimited"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSolr(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSolr() error {
	if c.Solr.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/marginalia/config.toml"
		}
		return fmt.Errorf("solr.url is required. Set MARGINALIA_SOLR_URL env var or edit %s (create with 'marginalia config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Solr.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("solr.url %q is not an absolute URL", c.Solr.URL)
	}
	if c.Solr.Core == "" {
		return errors.New("solr.core must be set")
	}
	return nil
}

func (c *Config) validateImport() error {
	if len(c.Import.Separator) != 1 {
		return fmt.Errorf("import.separator must be a single byte, got %q", c.Import.Separator)
	}
	if len(c.Import.Enclosure) != 1 {
		return fmt.Errorf("import.enclosure must be a single byte, got %q", c.Import.Enclosure)
	}
	if len(c.Import.Escape) > 1 {
		return fmt.Errorf("import.escape must be a single byte or empty, got %q", c.Import.Escape)
	}
	if !delimited.SupportedEncoding(c.Import.Encoding) {
		return fmt.Errorf("import.encoding %q is not supported", c.Import.Encoding)
	}
	for name, column := range map[string]int{
		"import.id_column":      c.Import.IDColumn,
		"import.date_column":    c.Import.DateColumn,
		"import.comment_column": c.Import.CommentColumn,
		"import.rating_column":  c.Import.RatingColumn,
	} {
		if column < 0 {
			return fmt.Errorf("%s must be >= 0 (0 disables the column)", name)
		}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
