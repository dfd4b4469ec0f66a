package roundmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the round module's schema migrations.
var Migrations = migrate.NewMigrations()
