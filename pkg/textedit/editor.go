package textedit

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/filesystem"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/rs/zerolog"
)

// EditFunc computes the new content of a file from its current content.
// existed is false when the file is missing and old is empty.
type EditFunc func(old []byte, existed bool) ([]byte, error)

// Editor applies EditFuncs to files with read-modify-write semantics.
type Editor struct {
	fs     filesystem.FS
	dryRun bool
	logger zerolog.Logger
}

// NewEditor creates an Editor. In dry-run mode nothing is written, but the
// returned changes describe what would have been written.
func NewEditor(fsys filesystem.FS, dryRun bool) *Editor {
	return &Editor{
		fs:     fsys,
		dryRun: dryRun,
		logger: logging.GetLogger("textedit"),
	}
}

// FS returns the filesystem the editor writes to.
func (e *Editor) FS() filesystem.FS { return e.fs }

// DryRun reports whether writes are suppressed.
func (e *Editor) DryRun() bool { return e.dryRun }

// Apply runs edit against path and writes the result when it differs from
// the current content. Missing parent directories are created.
func (e *Editor) Apply(component, path string, perm fs.FileMode, edit EditFunc) (change.Change, error) {
	c := change.Change{Component: component, Target: path}

	old, existed, err := filesystem.ReadFileOrEmpty(e.fs, path)
	if err != nil {
		return c, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	updated, err := edit(old, existed)
	if err != nil {
		return c, err
	}

	if bytes.Equal(old, updated) && (existed || len(updated) == 0) {
		c.Action = change.Unchanged
		e.logger.Debug().Str("path", path).Msg("File already up to date")
		return c, nil
	}

	c.Action = change.Updated
	if !existed {
		c.Action = change.Created
	}

	if e.dryRun {
		e.logger.Info().Str("path", path).Str("action", string(c.Action)).Msg("Dry run - file not written")
		return c, nil
	}

	if err := e.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return c, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", path)
	}
	if err := e.fs.WriteFile(path, updated, perm); err != nil {
		return c, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	if !existed {
		// WriteFile's perm is filtered by umask; executables need the exact mode.
		if err := e.fs.Chmod(path, perm); err != nil {
			return c, errors.Wrapf(err, errors.ErrFileWrite, "failed to chmod %s", path)
		}
	}

	e.logger.Info().Str("path", path).Str("action", string(c.Action)).Msg("File written")
	return c, nil
}

// EnsureLines appends missing lines to path.
func (e *Editor) EnsureLines(component, path string, lines []string) (change.Change, error) {
	var added []string
	c, err := e.Apply(component, path, 0644, func(old []byte, _ bool) ([]byte, error) {
		var out string
		out, added = EnsureLines(string(old), lines)
		return []byte(out), nil
	})
	if err == nil && len(added) > 0 {
		c.Detail = pluralLines(len(added))
	}
	return c, err
}

// UpsertBlock writes a managed block named name into path.
func (e *Editor) UpsertBlock(component, path, name, body string) (change.Change, error) {
	return e.Apply(component, path, 0644, func(old []byte, _ bool) ([]byte, error) {
		return []byte(UpsertBlock(string(old), name, body)), nil
	})
}

// WriteContent replaces the content of path entirely.
func (e *Editor) WriteContent(component, path string, perm fs.FileMode, content []byte) (change.Change, error) {
	return e.Apply(component, path, perm, func([]byte, bool) ([]byte, error) {
		return content, nil
	})
}

func pluralLines(n int) string {
	if n == 1 {
		return "1 line added"
	}
	return fmt.Sprintf("%d lines added", n)
}
