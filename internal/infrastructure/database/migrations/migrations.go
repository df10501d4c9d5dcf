// Package migrations embeds the SQL schema of the upload service.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
