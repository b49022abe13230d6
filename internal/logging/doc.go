// Package logging builds the slog loggers used across Scrutiny.
//
// New constructs a logger from explicit options; NewFromConfig derives those
// options from application config and tees output into the configured log
// directory. Two handlers are available: a human console handler that prints
// one line per record with key=value attrs (colorized when attached to a
// terminal) and a JSON handler with normalized ts/level/msg keys.
//
// The attr helpers keep call sites short and give shared fields (component,
// artifact, stage) one canonical key each.
package logging
