package handicapmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	handicapdb "github.com/fairway-club/round-engine/app/modules/handicap/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewCreateTable().
			Model((*handicapdb.HandicapRecord)(nil)).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create handicap_records table: %w", err)
		}

		if _, err := db.NewCreateIndex().
			Model((*handicapdb.HandicapRecord)(nil)).
			Index("handicap_records_user_computed_at_idx").
			Column("user_id", "computed_at").
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create handicap_records index: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*handicapdb.HandicapRecord)(nil)).
			IfExists().
			Cascade().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop handicap_records table: %w", err)
		}
		return nil
	})
}
