package ledger

import (
	"sync"
	"testing"
)

func TestUserLocksSameUserSameMutex(t *testing.T) {
	t.Parallel()

	var locks userLocks

	// Many goroutines racing on a brand-new id must all get one instance.
	const workers = 32

	var wg sync.WaitGroup
	got := make([]*sync.Mutex, workers)

	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			got[i] = locks.get(99)
		}()
	}

	wg.Wait()

	for i := 1; i < workers; i++ {
		if got[i] != got[0] {
			t.Fatalf("goroutine %d got a different mutex instance", i)
		}
	}
}

func TestUserLocksDistinctUsersDistinctMutexes(t *testing.T) {
	t.Parallel()

	var locks userLocks

	a := locks.get(1)
	b := locks.get(2)

	if a == b {
		t.Fatalf("users 1 and 2 share a mutex")
	}

	if locks.get(1) != a {
		t.Fatalf("repeated get for user 1 returned a new mutex")
	}
}
