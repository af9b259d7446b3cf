// Package logging assembles structured slog loggers and formatting helpers used
// across recipekit components.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so storage and pipeline code can tag
// log lines with document IDs, asset keys, and folder names consistently. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape as the rest of the system.
package logging
