package postgres

import (
	"database/sql"

	"pointledger/internal/repos/points"
)

var _ points.Store = (*pointsRepo)(nil)

type pointsRepo struct{ db *sql.DB }

func New(db *sql.DB) *pointsRepo {
	return &pointsRepo{db: db}
}
