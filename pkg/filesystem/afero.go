package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// aferoFS implements FS using afero. Backends without symlink support
// (MemMapFs) get links simulated in a side table.
type aferoFS struct {
	fs    afero.Fs
	links map[string]string
}

// NewAferoFS creates a new afero filesystem implementation
func NewAferoFS(fs afero.Fs) FS {
	return &aferoFS{fs: fs, links: map[string]string{}}
}

// NewMemory returns an FS backed by an in-memory afero filesystem
func NewMemory() FS {
	return NewAferoFS(afero.NewMemMapFs())
}

func (a *aferoFS) native() bool {
	_, ok := a.fs.(afero.Linker)
	return ok
}

// resolve follows simulated links so reads see the link target.
func (a *aferoFS) resolve(name string) string {
	name = filepath.Clean(name)
	for i := 0; i < 40; i++ {
		target, ok := a.links[name]
		if !ok {
			return name
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(name), target)
		}
		name = filepath.Clean(target)
	}
	return name
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(a.resolve(name))
}

func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	if target, ok := a.links[filepath.Clean(name)]; ok {
		return linkInfo{name: filepath.Base(name), size: int64(len(target))}, nil
	}
	if l, ok := a.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return a.fs.Stat(name)
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	name = a.resolve(name)
	info, err := a.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(a.fs, name)
}

func (a *aferoFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(a.fs, a.resolve(name), data, perm)
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) Symlink(oldname, newname string) error {
	if a.native() {
		return a.fs.(afero.Linker).SymlinkIfPossible(oldname, newname)
	}
	newname = filepath.Clean(newname)
	if _, err := a.Lstat(newname); err == nil {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: fs.ErrExist}
	}
	if _, err := a.fs.Stat(filepath.Dir(newname)); err != nil {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: err}
	}
	a.links[newname] = oldname
	return nil
}

func (a *aferoFS) Readlink(name string) (string, error) {
	if a.native() {
		return a.fs.(afero.LinkReader).ReadlinkIfPossible(name)
	}
	if target, ok := a.links[filepath.Clean(name)]; ok {
		return target, nil
	}
	return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
}

func (a *aferoFS) Remove(name string) error {
	clean := filepath.Clean(name)
	if _, ok := a.links[clean]; ok {
		delete(a.links, clean)
		return nil
	}
	return a.fs.Remove(name)
}

func (a *aferoFS) Rename(oldpath, newpath string) error {
	oldClean, newClean := filepath.Clean(oldpath), filepath.Clean(newpath)
	if target, ok := a.links[oldClean]; ok {
		delete(a.links, oldClean)
		a.links[newClean] = target
		return nil
	}
	return a.fs.Rename(oldpath, newpath)
}

func (a *aferoFS) Chmod(name string, mode fs.FileMode) error {
	return a.fs.Chmod(a.resolve(name), mode)
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := afero.ReadDir(a.fs, a.resolve(name))
	if err != nil {
		return nil, err
	}
	dirEntries := make([]fs.DirEntry, 0, len(entries)+len(a.links))
	for _, entry := range entries {
		dirEntries = append(dirEntries, fs.FileInfoToDirEntry(entry))
	}
	dir := filepath.Clean(name)
	for path, target := range a.links {
		if filepath.Dir(path) == dir {
			dirEntries = append(dirEntries, fs.FileInfoToDirEntry(linkInfo{name: filepath.Base(path), size: int64(len(target))}))
		}
	}
	return dirEntries, nil
}

type linkInfo struct {
	name string
	size int64
}

func (l linkInfo) Name() string       { return l.name }
func (l linkInfo) Size() int64        { return l.size }
func (l linkInfo) Mode() fs.FileMode  { return fs.ModeSymlink | 0777 }
func (l linkInfo) ModTime() time.Time { return time.Time{} }
func (l linkInfo) IsDir() bool        { return false }
func (l linkInfo) Sys() interface{}   { return nil }
