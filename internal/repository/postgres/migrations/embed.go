// Package migrations embeds the PostgreSQL schema files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
