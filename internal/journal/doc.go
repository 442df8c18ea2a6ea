// Package journal records deep-clean runs in SQLite so past reorganizations
// can be inspected after the fact.
//
// Each run receives a UUID and accumulates one row per filesystem action
// (move, remove, mkdir, rmdir, patch) with its status and detail. The journal
// is an audit trail only: runs never read it back, and a write failure must
// not stop a reorganization. Schema changes bump schemaVersion; users delete
// journal.db to adopt the new schema.
package journal
