package postgres

import "embed"

// MigrationsFS embeds the goose migration files so the server binary can
// migrate its own schema without a separate deploy artifact.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
