// Package migrations embeds the goose SQL migrations for the catfeed schema.
package migrations

import "embed"

// Migrations holds the *.sql files applied by repository.Migrate.
//
//go:embed *.sql
var Migrations embed.FS
