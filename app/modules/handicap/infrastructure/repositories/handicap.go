package handicapdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	handicaptypes "github.com/fairway-club/round-engine/app/modules/handicap/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// HandicapDBImpl is the bun-backed HandicapDB implementation.
type HandicapDBImpl struct {
	DB *bun.DB
}

var _ HandicapDB = (*HandicapDBImpl)(nil)

func (db *HandicapDBImpl) SaveRecord(ctx context.Context, record *handicaptypes.HandicapRecord) error {
	_, err := db.DB.NewInsert().
		Model(rowFromDomain(record)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert handicap record for user %s: %w", record.UserID, err)
	}
	return nil
}

func (db *HandicapDBImpl) GetLatestRecord(ctx context.Context, userID sharedtypes.UserID) (*handicaptypes.HandicapRecord, error) {
	var row HandicapRecord
	err := db.DB.NewSelect().
		Model(&row).
		Where("user_id = ?", userID).
		Order("computed_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to fetch latest handicap record for user %s: %w", userID, err)
	}
	return row.toDomain(), nil
}

func (db *HandicapDBImpl) GetRecords(ctx context.Context, userID sharedtypes.UserID, limit int) ([]handicaptypes.HandicapRecord, error) {
	var rows []HandicapRecord
	q := db.DB.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("computed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch handicap records for user %s: %w", userID, err)
	}

	records := make([]handicaptypes.HandicapRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].toDomain()
	}
	return records, nil
}
