// Package importer drives one bulk annotation import from a delimited
// export file into the catalog.
//
// A run reads rows sequentially, normalizes the configured columns,
// resolves each identifier against the discovery index, and writes
// comments and ratings through the store with comment-level deduplication.
// Row conditions (unresolved identifier, duplicate comment, out-of-range
// rating, resource creation failure) skip the row and continue; malformed
// input, index transport failures, write failures, and run-log append
// failures abort the run. Progress and outcomes land in the run log, the
// run ledger, and optional push notifications. An advisory lock next to
// the catalog database keeps concurrent imports out.
package importer
