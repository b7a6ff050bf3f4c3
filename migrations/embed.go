// Package migrations embeds the PostgreSQL schema so the api binary and the
// test harness apply exactly the same files.
package migrations

import "embed"

// FS holds every *.sql file; files are applied in name order.
//
//go:embed *.sql
var FS embed.FS
