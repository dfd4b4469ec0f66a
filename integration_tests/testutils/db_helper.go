package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	handicapmigrations "github.com/fairway-club/round-engine/app/modules/handicap/infrastructure/repositories/migrations"
	roundmigrations "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories/migrations"
	statsmigrations "github.com/fairway-club/round-engine/app/modules/statistics/infrastructure/repositories/migrations"
	"github.com/fairway-club/round-engine/integration_tests/containers"
)

var (
	dbOnce  sync.Once
	dbDSN   string
	dbErr   error
	sharedD *bun.DB
)

// SetupTestDB starts one Postgres container for the whole test binary, runs
// every module's migrations, and returns a bun handle. Tests share the
// database; TruncateTables gives each test a clean slate. Skips when Docker
// is unavailable or -short is set.
func SetupTestDB(t *testing.T) *bun.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	if os.Getenv("SKIP_INTEGRATION_TESTS") != "" {
		t.Skip("SKIP_INTEGRATION_TESTS is set")
	}

	dbOnce.Do(func() {
		ctx := context.Background()
		_, dsn, err := containers.SetupPostgresContainer(ctx)
		if err != nil {
			dbErr = err
			return
		}
		dbDSN = dsn

		pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db := bun.NewDB(pgdb, pgdialect.New())

		for name, migrations := range map[string]*migrate.Migrations{
			"round":      roundmigrations.Migrations,
			"handicap":   handicapmigrations.Migrations,
			"statistics": statsmigrations.Migrations,
		} {
			migrator := migrate.NewMigrator(db, migrations,
				migrate.WithTableName(fmt.Sprintf("bun_migrations_%s", name)),
				migrate.WithLocksTableName(fmt.Sprintf("bun_migration_locks_%s", name)),
			)
			if err := migrator.Init(ctx); err != nil {
				dbErr = fmt.Errorf("failed to init %s migrations: %w", name, err)
				return
			}
			if _, err := migrator.Migrate(ctx); err != nil {
				dbErr = fmt.Errorf("failed to run %s migrations: %w", name, err)
				return
			}
		}
		sharedD = db
	})

	if dbErr != nil {
		t.Skipf("postgres container unavailable: %v", dbErr)
	}
	return sharedD
}

// TestDSN returns the shared container's DSN. Valid only after SetupTestDB.
func TestDSN() string { return dbDSN }

// TruncateTables clears every application table between tests.
func TruncateTables(t *testing.T, db *bun.DB) {
	t.Helper()
	for _, table := range []string{"rounds", "handicap_records", "round_statistics"} {
		if _, err := db.ExecContext(context.Background(), fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}
