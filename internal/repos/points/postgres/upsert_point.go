package postgres

import (
	"context"
	"errors"
	"fmt"

	"pointledger/internal/repos/points"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrBalanceConstraint = errors.New("balance violates table constraint")

func (r *pointsRepo) UpsertPoint(ctx context.Context, userID, balance int64) (points.UserPoint, error) {
	var up points.UserPoint

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user_points (user_id, balance, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE
		SET balance = EXCLUDED.balance, updated_at = now()
		RETURNING user_id, balance, updated_at
	`, userID, balance).Scan(&up.UserID, &up.Balance, &up.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
			return points.UserPoint{}, fmt.Errorf("upsert point: %w", ErrBalanceConstraint)
		}

		return points.UserPoint{}, fmt.Errorf("upsert point: %w", err)
	}

	return up, nil
}
