// Package config loads, normalizes, and validates marginalia configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MARGINALIA_SOLR_URL. The Config type centralizes every knob the importer
// and CLI need, from the catalog database location to the delimited-file
// defaults an import run starts from.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical encoding names, and clear validation errors.
package config
