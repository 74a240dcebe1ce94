package state

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

// Lock is an advisory lock file held for the duration of a run.
type Lock struct {
	flock *flock.Flock
}

// Acquire takes the lock at path without waiting. A lock held by another
// process fails with ErrLocked.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create lock directory for %s", path)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to lock %s", path)
	}
	if !ok {
		return nil, errors.Newf(errors.ErrLocked, "another omarchy-setup run holds %s", path).
			WithDetail("lock", path)
	}
	return &Lock{flock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.flock.Path() }

// Release unlocks. The file is left in place.
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to unlock %s", l.flock.Path())
	}
	return nil
}
