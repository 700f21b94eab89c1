package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"scriptfetch/internal/config"
)

const lockFileName = "scriptfetch.lock"

var (
	instanceLock *flock.Flock
	lockMu       sync.Mutex
)

func lockPath() string {
	return filepath.Join(config.GetRuntimeDir(), lockFileName)
}

// AcquireLock takes the single-instance lock without blocking.
// It returns false when another process already holds it.
func AcquireLock() (bool, error) {
	lockMu.Lock()
	defer lockMu.Unlock()

	if instanceLock != nil {
		return true, nil
	}

	path := lockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create runtime dir: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return false, nil
	}
	instanceLock = fl
	return true, nil
}

// ReleaseLock drops the lock taken by AcquireLock. It is a no-op when the
// lock is not held.
func ReleaseLock() error {
	lockMu.Lock()
	defer lockMu.Unlock()

	if instanceLock == nil {
		return nil
	}
	err := instanceLock.Unlock()
	instanceLock = nil
	return err
}
