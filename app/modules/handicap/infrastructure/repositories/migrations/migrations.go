package handicapmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the handicap module's schema migrations.
var Migrations = migrate.NewMigrations()
