// Package migrations holds the bundle library schema as numbered
// NNN_name.up.sql / NNN_name.down.sql pairs.
package migrations

import "embed"

// FS holds the schema files. The store applies the .up.sql files in
// version order and records each version in schema_migrations.
//
//go:embed *.up.sql *.down.sql
var FS embed.FS
