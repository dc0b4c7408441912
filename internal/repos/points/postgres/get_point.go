package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pointledger/internal/repos/points"
)

func (r *pointsRepo) GetPoint(ctx context.Context, userID int64) (points.UserPoint, error) {
	var up points.UserPoint

	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, balance, updated_at
		FROM user_points
		WHERE user_id = $1
	`, userID).Scan(&up.UserID, &up.Balance, &up.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return points.UserPoint{}, points.ErrPointNotFound
		}

		return points.UserPoint{}, fmt.Errorf("get point: %w", err)
	}

	return up, nil
}
