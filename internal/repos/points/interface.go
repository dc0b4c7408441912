package points

import (
	"context"
	"errors"
	"time"
)

var ErrPointNotFound = errors.New("point balance not found")

// Kind classifies a history entry.
type Kind string

const (
	KindCharge Kind = "CHARGE"
	KindUse    Kind = "USE"
)

// UserPoint is a user's current point balance.
type UserPoint struct {
	UserID    int64
	Balance   int64
	UpdatedAt time.Time
}

// PointHistory is an immutable audit record of one successful charge or use.
// ID is assigned by the store on append.
type PointHistory struct {
	ID         int64
	UserID     int64
	Amount     int64
	Kind       Kind
	OccurredAt time.Time
}

// Store holds point balances and their audit history.
//
// Individual calls must be safe under concurrent use, but the store offers no
// atomicity across calls: a GetPoint followed by an UpsertPoint from two
// different callers may interleave. Serializing the read-modify-write sequence
// is the ledger service's job, not the store's.
type Store interface {
	// GetPoint returns the stored balance, or ErrPointNotFound if the user
	// has never been written.
	GetPoint(ctx context.Context, userID int64) (UserPoint, error)

	// UpsertPoint writes the balance and returns the stored record with the
	// store-assigned UpdatedAt.
	UpsertPoint(ctx context.Context, userID, balance int64) (UserPoint, error)

	// AppendHistory records one audit entry and returns it with the
	// store-assigned ID.
	AppendHistory(ctx context.Context, userID, amount int64, kind Kind, occurredAt time.Time) (PointHistory, error)

	// ListHistory returns the user's entries in insertion order. A user with
	// no history yields an empty slice, not an error.
	ListHistory(ctx context.Context, userID int64) ([]PointHistory, error)
}
