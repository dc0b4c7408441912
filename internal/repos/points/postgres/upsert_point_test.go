package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"pointledger/internal/infra/pgtestutil"
	"pointledger/internal/repos/points"
)

func TestUpsertPoint_TableDriven(t *testing.T) {
	t.Parallel()

	type tc struct {
		name        string
		seed        func(db *sql.DB, t *testing.T)
		userID      int64
		balance     int64
		wantBalance int64
		wantErr     error
	}

	seedPoint := func(db *sql.DB, id, bal int64, t *testing.T) {
		_, err := db.Exec(`
			INSERT INTO user_points (user_id, balance) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET balance = EXCLUDED.balance
		`, id, bal)
		if err != nil {
			t.Fatalf("seed point(%d): %v", id, err)
		}
	}

	tests := []tc{
		{
			name:        "insert_new_user",
			seed:        nil,
			userID:      1,
			balance:     500,
			wantBalance: 500,
		},
		{
			name:        "update_existing_user",
			seed:        func(db *sql.DB, t *testing.T) { seedPoint(db, 2, 1_000, t) },
			userID:      2,
			balance:     750,
			wantBalance: 750,
		},
		{
			name:        "zero_balance_allowed",
			seed:        func(db *sql.DB, t *testing.T) { seedPoint(db, 3, 1_000, t) },
			userID:      3,
			balance:     0,
			wantBalance: 0,
		},
		{
			name:    "negative_balance_hits_check_constraint",
			seed:    nil,
			userID:  4,
			balance: -1,
			wantErr: ErrBalanceConstraint,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed != nil {
				tt.seed(db, t)
			}

			repo := New(db)
			ctx := context.Background()

			got, err := repo.UpsertPoint(ctx, tt.userID, tt.balance)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.UserID != tt.userID || got.Balance != tt.wantBalance {
				t.Fatalf("stored record mismatch: %+v", got)
			}
			if got.UpdatedAt.IsZero() {
				t.Fatalf("store must assign updated_at")
			}

			// Read back through GetPoint.
			read, err := repo.GetPoint(ctx, tt.userID)
			if err != nil {
				t.Fatalf("get point: %v", err)
			}
			if read.Balance != tt.wantBalance {
				t.Fatalf("read back: want %d, got %d", tt.wantBalance, read.Balance)
			}
		})
	}
}

func TestGetPoint_Absent(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	_, err := repo.GetPoint(context.Background(), 999)
	if !errors.Is(err, points.ErrPointNotFound) {
		t.Fatalf("want ErrPointNotFound, got %v", err)
	}
}
