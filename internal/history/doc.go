// Package history keeps an optional SQLite ledger of generator runs.
//
// Each run records its identifier, timing, strategy, counters, and one row
// per subscription entry with the outcome (generated or skipped) and skip
// reason. The `clashsub history` command reads it back. The database uses the
// pure-Go modernc.org/sqlite driver in WAL mode, so no cgo toolchain is needed.
package history
