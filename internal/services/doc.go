// Package services defines shared utilities consumed by the import pipeline
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and row numbers for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent between the Solr client, the importer,
//     and the run ledger.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// stays uniform across the importer.
package services
