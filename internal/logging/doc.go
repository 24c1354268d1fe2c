// Package logging builds the slog loggers used for process diagnostics.
//
// It renders either compact console lines or structured JSON (picked
// automatically from the terminal state when the format is "auto"), writes
// through append-mode file handles alongside stderr, and prunes old log
// files per the configured retention. Import runs keep their own audit log
// elsewhere; this package only covers diagnostics.
package logging
