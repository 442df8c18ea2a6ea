// Package logging assembles the slog loggers deepclean writes progress with.
//
// The console format prints one line per record, prefixed [SYSTEM] for normal
// progress and [ERROR] or [WARN] for recoverable failures, which go to stderr.
// Colour is applied only when the target stream is a terminal. The json format
// emits slog JSON with ts/level/msg keys, and a JSON copy can be fanned out to
// a log file alongside either format.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits lines with the same shape.
package logging
