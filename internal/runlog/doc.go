// Package runlog writes the operator-facing import log: one timestamped
// line per event, appended to a file that is reopened for every write so
// external rotation or truncation mid-run is safe. Alerts additionally echo
// to the console; ordinary events echo only in verbose mode.
package runlog
