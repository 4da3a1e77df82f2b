// Package migrations embeds the goose migrations of the local key ring
// database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
