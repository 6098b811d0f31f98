// Package runner solves problem files.
//
// A Runner turns a parsed problem into a domain instance, runs the configured
// strategy on a fresh search engine and renders the solution paths as
// strings. Each run gets a UUID, a trace span, metrics and log fields through
// pkg/telemetry, and, when a store is configured, a row in the run history
// together with its solutions and a short journal of search events.
//
// Failures are returned as *RunError values classified as permanent (invalid
// problems, broken scripts) or transient (store failures, cancellation).
package runner
