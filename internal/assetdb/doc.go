// Package assetdb is the durable, transactional store for binary assets.
//
// One SQLite database holds two independently named partitions — images and
// auxiliary JSON payload files — each keyed by a string identifier and
// stamped with its write time. Partitions are created by monotonically
// versioned migrations, so a database opened at an older schema version gains
// missing partitions without touching existing rows.
//
// The database also hosts the kv_entries table backing the sqlite storage
// backend in package kvstore; assetdb owns the schema, kvstore owns the
// traffic.
package assetdb
