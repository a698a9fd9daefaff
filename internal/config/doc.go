// Package config loads, normalizes, and validates marketcron configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and runner need: the shared interpreter, stage script locations, the run
// log directory, the schedule gate weekday, and notification settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
