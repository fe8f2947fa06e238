// Package migrations embeds the SQL schema applied at startup.
package migrations

import "embed"

// FS holds the *.sql files in lexicographic application order.
//
//go:embed *.sql
var FS embed.FS
