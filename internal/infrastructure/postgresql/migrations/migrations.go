// Package migrations embeds the relayer schema.
package migrations

import "embed"

// FS holds every NNN_name.up.sql / NNN_name.down.sql file.
//
//go:embed *.sql
var FS embed.FS
