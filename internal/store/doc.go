// Package store persists the comment and rating catalog backed by SQLite.
//
// The catalog mirrors the discovery layer's annotation tables: resources keyed
// by (record_id, source), comments and ratings attached to resources, and link
// rows binding comments to the record identifiers they were imported for. A
// separate import_runs table records one row per importer invocation so past
// runs can be listed and inspected after the fact.
package store
