package database

import (
	"fmt"

	"github.com/gofrs/flock"
)

// acquireLock takes the single-writer lock next to the cache file.
func acquireLock(path string) (*flock.Flock, error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock cache: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock, nil
}
