package statsmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	statsdb "github.com/fairway-club/round-engine/app/modules/statistics/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewCreateTable().
			Model((*statsdb.RoundStatisticsRow)(nil)).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create round_statistics table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*statsdb.RoundStatisticsRow)(nil)).
			IfExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop round_statistics table: %w", err)
		}
		return nil
	})
}
