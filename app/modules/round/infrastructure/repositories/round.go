package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
)

// RoundDBImpl is the bun-backed RoundDB implementation.
type RoundDBImpl struct {
	DB *bun.DB
}

var _ RoundDB = (*RoundDBImpl)(nil)

func (db *RoundDBImpl) SaveRound(ctx context.Context, round *roundtypes.Round) error {
	_, err := db.DB.NewInsert().
		Model(rowFromDomain(round)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert round %s: %w", round.ID, err)
	}
	return nil
}

func (db *RoundDBImpl) UpdateRound(ctx context.Context, round *roundtypes.Round) error {
	res, err := db.DB.NewUpdate().
		Model(rowFromDomain(round)).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update round %s: %w", round.ID, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("round %s: %w", round.ID, ErrRoundNotFound)
	}
	return nil
}

func (db *RoundDBImpl) GetRound(ctx context.Context, roundID sharedtypes.RoundID) (*roundtypes.Round, error) {
	var row Round
	err := db.DB.NewSelect().
		Model(&row).
		Where("id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("round %s: %w", roundID, ErrRoundNotFound)
		}
		return nil, fmt.Errorf("failed to fetch round %s: %w", roundID, err)
	}
	return row.toDomain(), nil
}

func (db *RoundDBImpl) DeleteRound(ctx context.Context, roundID sharedtypes.RoundID) error {
	res, err := db.DB.NewDelete().
		Model((*Round)(nil)).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete round %s: %w", roundID, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("round %s: %w", roundID, ErrRoundNotFound)
	}
	return nil
}

func (db *RoundDBImpl) GetActiveRoundForCourse(ctx context.Context, userID sharedtypes.UserID, courseID sharedtypes.CourseID) (*roundtypes.Round, error) {
	var row Round
	err := db.DB.NewSelect().
		Model(&row).
		Where("user_id = ?", userID).
		Where("course_id = ?", courseID).
		Where("status = ?", roundtypes.RoundStatusInProgress).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch active round for user %s course %s: %w", userID, courseID, err)
	}
	return row.toDomain(), nil
}

func (db *RoundDBImpl) GetRecentCompletedRounds(ctx context.Context, userID sharedtypes.UserID, maxAgeDays, limit int) ([]roundtypes.Round, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -maxAgeDays)

	var rows []Round
	q := db.DB.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Where("status = ?", roundtypes.RoundStatusCompleted).
		Where("completed_at >= ?", cutoff).
		Order("completed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch recent rounds for user %s: %w", userID, err)
	}

	rounds := make([]roundtypes.Round, len(rows))
	for i := range rows {
		rounds[i] = *rows[i].toDomain()
	}
	return rounds, nil
}
