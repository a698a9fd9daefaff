// Package notifications publishes runner lifecycle events (run started, run
// complete, pre-flight failure) to an ntfy topic. With no topic configured it
// degrades to a no-op, so callers never need nil checks.
package notifications
