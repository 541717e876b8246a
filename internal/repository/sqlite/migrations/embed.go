// Package migrations holds the SQLite schema files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
