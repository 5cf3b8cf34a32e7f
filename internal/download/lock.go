package download

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// acquireLock takes an exclusive lock on path and returns its release func.
// An empty path disables locking.
func acquireLock(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", path, err)
	}
	return func() { _ = lock.Unlock() }, nil
}
