// Package migrations embeds the SQL migrations for the sqlite connections table.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
