package statsmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the statistics module's schema migrations.
var Migrations = migrate.NewMigrations()
