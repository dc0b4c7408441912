package postgres

import (
	"context"
	"fmt"

	"pointledger/internal/repos/points"
)

func (r *pointsRepo) ListHistory(ctx context.Context, userID int64) ([]points.PointHistory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, kind, occurred_at
		FROM point_histories
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := make([]points.PointHistory, 0, 16)

	for rows.Next() {
		var (
			e    points.PointHistory
			kind string
		)

		err = rows.Scan(&e.ID, &e.UserID, &e.Amount, &kind, &e.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}

		e.Kind = points.Kind(kind)
		entries = append(entries, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return entries, nil
}
