package ledger

import "sync"

// userLocks hands out one mutex per user id. Locks are created lazily on
// first use and kept for the life of the process; the registry never evicts.
//
// LoadOrStore makes the first-use race safe: two callers hitting a brand-new
// user id always end up sharing the same mutex instance.
type userLocks struct {
	m sync.Map // int64 -> *sync.Mutex
}

func (l *userLocks) get(userID int64) *sync.Mutex {
	// Fast path: lock already exists, no allocation.
	if mu, ok := l.m.Load(userID); ok {
		return mu.(*sync.Mutex)
	}

	mu, _ := l.m.LoadOrStore(userID, new(sync.Mutex))

	return mu.(*sync.Mutex)
}
