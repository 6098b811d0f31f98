// Package stores persists search run history in SQLite.
//
// A run records the problem, strategy and final engine counters of one
// search. Solutions and an append-only event log hang off each run and are
// removed with it. The schema is managed by embedded migrations. File
// databases use WAL mode; the special path ":memory:" gives a private
// in-memory database for tests.
package stores
