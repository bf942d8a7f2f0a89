// Package migrations embeds the ordered, additive SQL schema steps applied
// by goose when the store is opened. Every step only creates tables,
// columns or indexes; no step rewrites or drops existing rows.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
