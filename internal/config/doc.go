// Package config loads, normalizes, and validates recipekit configuration.
//
// Configuration lives in a TOML file (default ~/.config/recipekit/config.toml,
// falling back to recipekit.toml in the working directory). Load applies
// defaults first, then the file contents, then path expansion and validation,
// so callers always receive a complete, absolute-path configuration.
package config
