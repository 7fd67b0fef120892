package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/valter-silva-au/dayplan/internal/logging"
)

// LockFileName is the advisory lock guarding the planner document, so a
// dashboard and a one-shot command never interleave a save with a load.
const LockFileName = ".lock"

// lockMode selects a flock mode. Loads share the lock; saves hold it alone
// while they rotate the backup and write the document.
type lockMode int

const (
	lockShared    lockMode = syscall.LOCK_SH
	lockExclusive lockMode = syscall.LOCK_EX
)

func (m lockMode) String() string {
	if m == lockShared {
		return "shared"
	}
	return "exclusive"
}

// stateLock is the lock file in a state directory.
type stateLock struct {
	path string
}

func newStateLock(dir string) stateLock {
	return stateLock{path: filepath.Join(dir, LockFileName)}
}

// acquire blocks until the lock is held in the given mode and returns the
// matching release. The directory is created when missing.
func (l stateLock) acquire(mode lockMode) (release func(), err error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), int(mode)); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquiring %s state lock: %w", mode, err)
	}
	return func() {
		if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
			logging.Debug("storage", "releasing %s state lock: %v", mode, err)
		}
		f.Close()
	}, nil
}
