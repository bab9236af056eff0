package postgres

import "embed"

// MigrationsFS embeds the SQL migrations so the binary can migrate the
// schema without a checkout on disk.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migrations inside MigrationsFS.
const MigrationsDir = "migrations"
