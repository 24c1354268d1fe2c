// Package resolve maps raw export identifiers to canonical index records.
//
// A resolver tries an ordered list of strategies built from the configured
// identifier fields. The reserved field name "id" loads records directly by
// their composed identifier; any other name runs a scoped index query
// against that field. The first strategy that produces a record wins, and a
// row whose identifier no strategy can resolve is reported as unresolved
// rather than as an error.
package resolve
