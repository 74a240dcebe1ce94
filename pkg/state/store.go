package state

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/filesystem"
)

// Keys recorded by omarchy-setup.
const (
	KeyGPUMode = "gpu-mode"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Store reads and writes one small file per key in the state directory.
type Store struct {
	fs     filesystem.FS
	dir    string
	dryRun bool
}

// NewStore creates a Store rooted at dir.
func NewStore(fsys filesystem.FS, dir string, dryRun bool) *Store {
	return &Store{fs: fsys, dir: dir, dryRun: dryRun}
}

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key)
}

func validKey(key string) error {
	if !keyPattern.MatchString(key) {
		return errors.Newf(errors.ErrInvalidInput, "invalid state key %q", key)
	}
	return nil
}

// Get returns the value of key. ok is false when it was never set.
func (s *Store) Get(key string) (string, bool, error) {
	if err := validKey(key); err != nil {
		return "", false, err
	}
	data, found, err := filesystem.ReadFileOrEmpty(s.fs, s.Path(key))
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to read state %s", key)
	}
	return strings.TrimSpace(string(data)), found, nil
}

// Set records value under key. It reports whether the stored value changed.
func (s *Store) Set(key, value string) (bool, error) {
	current, found, err := s.Get(key)
	if err != nil {
		return false, err
	}
	if found && current == value {
		return false, nil
	}
	if s.dryRun {
		return true, nil
	}
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create state directory %s", s.dir)
	}
	if err := s.fs.WriteFile(s.Path(key), []byte(value+"\n"), 0644); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to write state %s", key)
	}
	return true, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	ok, err := filesystem.Exists(s.fs, s.Path(key))
	if err != nil || !ok || s.dryRun {
		return err
	}
	if err := s.fs.Remove(s.Path(key)); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to delete state %s", key)
	}
	return nil
}
