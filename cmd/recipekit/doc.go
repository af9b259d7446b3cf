// Package main hosts the recipekit CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into export
// and import runs, asset store maintenance, workspace status reporting, and
// configuration scaffolding. It centralizes configuration resolution, store
// wiring, and structured logging setup so subcommands can focus on user
// experience instead of plumbing.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
