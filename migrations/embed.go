// Package migrations embeds the versioned SQL schema so the server and
// migrate binaries carry it without a migrations directory on disk.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file
//
//go:embed *.sql
var FS embed.FS
