// Package logging assembles the structured slog loggers used across
// marketcron.
//
// It owns the console and JSON handlers, centralizes level parsing, and opens
// the append-only run log so runner lifecycle lines reach both the terminal
// and the file that cron operators inspect. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
