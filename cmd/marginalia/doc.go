// Package main hosts the marginalia CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into import runs,
// run-ledger queries, catalog health checks, notification tests, and
// configuration scaffolding. It centralizes configuration resolution and
// diagnostic logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
