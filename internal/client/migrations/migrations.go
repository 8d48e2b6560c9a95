// Package migrations embeds the goose migrations of the local SQLite
// credential database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
