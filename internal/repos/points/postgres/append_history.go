package postgres

import (
	"context"
	"fmt"
	"time"

	"pointledger/internal/repos/points"
)

func (r *pointsRepo) AppendHistory(ctx context.Context, userID, amount int64, kind points.Kind, occurredAt time.Time) (points.PointHistory, error) {
	entry := points.PointHistory{
		UserID:     userID,
		Amount:     amount,
		Kind:       kind,
		OccurredAt: occurredAt,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO point_histories (user_id, amount, kind, occurred_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, userID, amount, string(kind), occurredAt).Scan(&entry.ID)
	if err != nil {
		return points.PointHistory{}, fmt.Errorf("append history: %w", err)
	}

	return entry, nil
}
