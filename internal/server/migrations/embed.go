// Package migrations embeds the goose migrations of the dev bridge
// postgres schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
