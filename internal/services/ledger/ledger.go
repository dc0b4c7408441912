package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pointledger/internal/repos/points"
)

// MaxBalance is the ceiling a user's balance may never exceed.
const MaxBalance = 10_000

var (
	ErrInvalidUserID        = errors.New("invalid user id")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrBalanceLimitExceeded = errors.New("balance limit exceeded")
	ErrInsufficientBalance  = errors.New("insufficient balance")
)

// Service is the point ledger core. It owns all business-rule validation and
// the per-user serialization that makes Charge/Use atomic with respect to each
// other, on top of a store that only guarantees single-call safety.
type Service struct {
	store points.Store
	locks userLocks
}

func New(store points.Store) *Service {
	return &Service{store: store}
}

// GetBalance returns the user's current balance. A user the store has never
// seen reads as zero, never as an error.
func (s *Service) GetBalance(ctx context.Context, userID int64) (points.UserPoint, error) {
	if userID <= 0 {
		return points.UserPoint{}, fmt.Errorf("user %d: %w", userID, ErrInvalidUserID)
	}

	up, err := s.currentPoint(ctx, userID)
	if err != nil {
		return points.UserPoint{}, fmt.Errorf("get balance: %w", err)
	}

	return up, nil
}

// GetHistory returns the user's audit entries in the order they were recorded.
func (s *Service) GetHistory(ctx context.Context, userID int64) ([]points.PointHistory, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user %d: %w", userID, ErrInvalidUserID)
	}

	entries, err := s.store.ListHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return entries, nil
}

// Charge adds amount to the user's balance and appends a CHARGE audit entry.
//
// The whole read-validate-persist-append sequence runs under the user's lock,
// so no two Charge/Use calls for the same user ever compute from the same
// stale read. A failed ceiling check leaves the balance untouched.
//
// If the history append fails after the balance write succeeded, the balance
// write stands and the store error is returned: the store offers no cross-call
// transaction to roll back with, and this asymmetry is part of the contract.
func (s *Service) Charge(ctx context.Context, userID, amount int64) (points.UserPoint, error) {
	if userID <= 0 {
		return points.UserPoint{}, fmt.Errorf("user %d: %w", userID, ErrInvalidUserID)
	}

	if amount < 0 {
		return points.UserPoint{}, fmt.Errorf("charge %d: %w", amount, ErrInvalidAmount)
	}

	mu := s.locks.get(userID)
	mu.Lock()
	defer mu.Unlock()

	current, err := s.currentPoint(ctx, userID)
	if err != nil {
		return points.UserPoint{}, fmt.Errorf("read balance: %w", err)
	}

	// Overflow-safe form of current.Balance+amount > MaxBalance.
	if current.Balance > MaxBalance-amount {
		return points.UserPoint{}, fmt.Errorf(
			"charge %d onto balance %d: %w", amount, current.Balance, ErrBalanceLimitExceeded)
	}

	return s.commit(ctx, userID, current.Balance+amount, amount, points.KindCharge)
}

// Use subtracts amount from the user's balance and appends a USE audit entry.
// Same locking and append-failure semantics as Charge; a use that would drive
// the balance negative is rejected with no mutation.
func (s *Service) Use(ctx context.Context, userID, amount int64) (points.UserPoint, error) {
	if userID <= 0 {
		return points.UserPoint{}, fmt.Errorf("user %d: %w", userID, ErrInvalidUserID)
	}

	if amount < 0 {
		return points.UserPoint{}, fmt.Errorf("use %d: %w", amount, ErrInvalidAmount)
	}

	mu := s.locks.get(userID)
	mu.Lock()
	defer mu.Unlock()

	current, err := s.currentPoint(ctx, userID)
	if err != nil {
		return points.UserPoint{}, fmt.Errorf("read balance: %w", err)
	}

	if current.Balance-amount < 0 {
		return points.UserPoint{}, fmt.Errorf(
			"use %d from balance %d: %w", amount, current.Balance, ErrInsufficientBalance)
	}

	return s.commit(ctx, userID, current.Balance-amount, amount, points.KindUse)
}

// commit persists the new balance, then appends the audit entry carrying the
// persisted timestamp. Callers must hold the user's lock.
func (s *Service) commit(ctx context.Context, userID, newBalance, amount int64, kind points.Kind) (points.UserPoint, error) {
	updated, err := s.store.UpsertPoint(ctx, userID, newBalance)
	if err != nil {
		return points.UserPoint{}, fmt.Errorf("persist balance: %w", err)
	}

	_, err = s.store.AppendHistory(ctx, userID, amount, kind, updated.UpdatedAt)
	if err != nil {
		// Balance write already committed; surface the fault as-is.
		return points.UserPoint{}, fmt.Errorf("append history: %w", err)
	}

	return updated, nil
}

// currentPoint reads the stored balance, mapping an absent user to an
// implicit zero balance.
func (s *Service) currentPoint(ctx context.Context, userID int64) (points.UserPoint, error) {
	up, err := s.store.GetPoint(ctx, userID)
	if err != nil {
		if errors.Is(err, points.ErrPointNotFound) {
			return points.UserPoint{UserID: userID, UpdatedAt: time.Now()}, nil
		}

		return points.UserPoint{}, fmt.Errorf("get point: %w", err)
	}

	return up, nil
}
