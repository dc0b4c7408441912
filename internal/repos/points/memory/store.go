package memory

import (
	"context"
	"sync"
	"time"

	"pointledger/internal/repos/points"
)

var _ points.Store = (*pointsStore)(nil)

// pointsStore is a synchronized in-memory points.Store. Each call is atomic on
// its own; nothing more. It intentionally does not serialize get-then-upsert
// sequences, so it is only correct underneath the ledger service's locks.
type pointsStore struct {
	mu        sync.Mutex
	balances  map[int64]points.UserPoint
	histories map[int64][]points.PointHistory
	nextID    int64
}

func New() *pointsStore {
	return &pointsStore{
		balances:  make(map[int64]points.UserPoint),
		histories: make(map[int64][]points.PointHistory),
		nextID:    1,
	}
}

func (s *pointsStore) GetPoint(_ context.Context, userID int64) (points.UserPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	up, ok := s.balances[userID]
	if !ok {
		return points.UserPoint{}, points.ErrPointNotFound
	}

	return up, nil
}

func (s *pointsStore) UpsertPoint(_ context.Context, userID, balance int64) (points.UserPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	up := points.UserPoint{
		UserID:    userID,
		Balance:   balance,
		UpdatedAt: time.Now(),
	}
	s.balances[userID] = up

	return up, nil
}

func (s *pointsStore) AppendHistory(_ context.Context, userID, amount int64, kind points.Kind, occurredAt time.Time) (points.PointHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := points.PointHistory{
		ID:         s.nextID,
		UserID:     userID,
		Amount:     amount,
		Kind:       kind,
		OccurredAt: occurredAt,
	}
	s.nextID++
	s.histories[userID] = append(s.histories[userID], entry)

	return entry, nil
}

func (s *pointsStore) ListHistory(_ context.Context, userID int64) ([]points.PointHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.histories[userID]

	// Copy so callers can't mutate the log through the returned slice.
	out := make([]points.PointHistory, len(stored))
	copy(out, stored)

	return out, nil
}
