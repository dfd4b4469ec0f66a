package statsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	statstypes "github.com/fairway-club/round-engine/app/modules/statistics/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// StatsCacheImpl is the bun-backed statistics cache.
type StatsCacheImpl struct {
	DB *bun.DB
}

var _ StatsCache = (*StatsCacheImpl)(nil)

func (db *StatsCacheImpl) GetRoundStatistics(ctx context.Context, roundID sharedtypes.RoundID) (*statstypes.RoundStatistics, error) {
	var row RoundStatisticsRow
	err := db.DB.NewSelect().
		Model(&row).
		Where("round_id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch cached statistics for round %s: %w", roundID, err)
	}
	stats := row.Statistics
	return &stats, nil
}

func (db *StatsCacheImpl) PutRoundStatistics(ctx context.Context, stats *statstypes.RoundStatistics) error {
	row := RoundStatisticsRow{
		RoundID:    stats.RoundID,
		Statistics: *stats,
		ComputedAt: time.Now().UTC(),
	}
	_, err := db.DB.NewInsert().
		Model(&row).
		On("CONFLICT (round_id) DO UPDATE").
		Set("statistics = EXCLUDED.statistics, computed_at = EXCLUDED.computed_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to cache statistics for round %s: %w", stats.RoundID, err)
	}
	return nil
}

func (db *StatsCacheImpl) Invalidate(ctx context.Context, roundID sharedtypes.RoundID) error {
	_, err := db.DB.NewDelete().
		Model((*RoundStatisticsRow)(nil)).
		Where("round_id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to invalidate cached statistics for round %s: %w", roundID, err)
	}
	return nil
}
