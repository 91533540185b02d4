// Package prefseditor provides a typed preference registry and a headless editor model for it.
//
// A Registry holds a tree of preference modules whose entries carry typed values (booleans,
// unsigned integers, strings, enumerations, file names, numeric ranges and colors). Walk projects
// the registry into display rows, and an Editor filters those rows, dispatches type-specific
// edit sessions and applies edits back to the registry as explicit commands. Values can be
// persisted per profile through pluggable storage backends (PostgreSQL, SQLite, in-memory) with
// an optional cache (Redis, in-memory).
package prefseditor
