package roundmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	rounddb "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewCreateTable().
			Model((*rounddb.Round)(nil)).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create rounds table: %w", err)
		}

		// Active-round lookup and recent-history queries.
		if _, err := db.NewCreateIndex().
			Model((*rounddb.Round)(nil)).
			Index("rounds_user_course_status_idx").
			Column("user_id", "course_id", "status").
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create rounds index: %w", err)
		}
		if _, err := db.NewCreateIndex().
			Model((*rounddb.Round)(nil)).
			Index("rounds_user_completed_at_idx").
			Column("user_id", "completed_at").
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create rounds completed_at index: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*rounddb.Round)(nil)).
			IfExists().
			Cascade().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop rounds table: %w", err)
		}
		return nil
	})
}
