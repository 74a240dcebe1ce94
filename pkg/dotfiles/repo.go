package dotfiles

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/filesystem"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
)

// BackupSuffix is appended to files moved out of the way of a link.
const BackupSuffix = ".bak"

// Fetcher brings a repository checkout up to date.
type Fetcher interface {
	Sync(ctx context.Context, url, branch, dir string) (change.Change, error)
}

// GitFetcher clones or pulls with go-git.
type GitFetcher struct {
	dryRun bool
	logger zerolog.Logger
}

// NewGitFetcher creates a go-git backed Fetcher.
func NewGitFetcher(dryRun bool) *GitFetcher {
	return &GitFetcher{dryRun: dryRun, logger: logging.GetLogger("dotfiles.git")}
}

// Sync clones url into dir when dir has no repository, otherwise pulls.
func (g *GitFetcher) Sync(ctx context.Context, url, branch, dir string) (change.Change, error) {
	c := change.Change{Component: "dotfiles", Target: dir}

	repo, err := git.PlainOpen(dir)
	if stderrors.Is(err, git.ErrRepositoryNotExists) {
		c.Action = change.Created
		c.Detail = "cloned " + url
		if g.dryRun {
			return c, nil
		}
		opts := &git.CloneOptions{URL: url}
		if branch != "" {
			opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
			opts.SingleBranch = true
		}
		g.logger.Info().Str("url", url).Str("dir", dir).Msg("Cloning dotfiles")
		if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
			return c, errors.Wrapf(err, errors.ErrCommandFailed, "failed to clone %s", url)
		}
		return c, nil
	}
	if err != nil {
		return c, errors.Wrapf(err, errors.ErrFileAccess, "failed to open repository %s", dir)
	}

	if g.dryRun {
		c.Action = change.Skipped
		c.Detail = "would pull"
		return c, nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return c, errors.Wrapf(err, errors.ErrFileAccess, "repository %s has no worktree", dir)
	}
	opts := &git.PullOptions{RemoteName: git.DefaultRemoteName}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}
	g.logger.Info().Str("dir", dir).Msg("Pulling dotfiles")
	err = wt.PullContext(ctx, opts)
	switch {
	case stderrors.Is(err, git.NoErrAlreadyUpToDate):
		c.Action = change.Unchanged
		return c, nil
	case err != nil:
		return c, errors.Wrapf(err, errors.ErrCommandFailed, "failed to pull %s", dir)
	}
	c.Action = change.Updated
	c.Detail = "pulled"
	return c, nil
}

// Repo syncs the dotfiles repository and links its files into $HOME.
type Repo struct {
	fs      filesystem.FS
	fetcher Fetcher
	paths   *paths.Paths
	cfg     config.Dotfiles
	dryRun  bool
	logger  zerolog.Logger
}

// NewRepo creates a Repo.
func NewRepo(fsys filesystem.FS, fetcher Fetcher, p *paths.Paths, cfg config.Dotfiles, dryRun bool) *Repo {
	return &Repo{fs: fsys, fetcher: fetcher, paths: p, cfg: cfg, dryRun: dryRun, logger: logging.GetLogger("dotfiles")}
}

// Dir returns where the repository is checked out.
func (r *Repo) Dir() string { return r.paths.DotfilesRepo() }

// Apply syncs the repository, then creates the links. Without a configured
// repository it only reports a skip.
func (r *Repo) Apply(ctx context.Context) ([]change.Change, error) {
	if r.cfg.Repo == "" {
		return []change.Change{{Component: "dotfiles", Target: r.Dir(), Action: change.Skipped, Detail: "no repository configured"}}, nil
	}

	c, err := r.fetcher.Sync(ctx, r.cfg.Repo, r.cfg.Branch, r.Dir())
	if err != nil {
		return nil, err
	}
	changes := []change.Change{c}

	for _, l := range r.cfg.Links {
		c, err := r.Link(l)
		if err != nil {
			return changes, err
		}
		changes = append(changes, c)
	}
	return changes, nil
}

// Link points target at the repository file. A correct link is left alone,
// a stale link is replaced and anything else is moved to <target>.bak.
func (r *Repo) Link(l config.Link) (change.Change, error) {
	source := filepath.Join(r.Dir(), l.Source)
	target := r.paths.Expand(l.Target)
	c := change.Change{Component: "dotfiles", Target: target}

	if !r.dryRun {
		if ok, err := filesystem.Exists(r.fs, source); err != nil {
			return c, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", source)
		} else if !ok {
			return c, errors.Newf(errors.ErrNotFound, "%s not found in dotfiles repository", l.Source).
				WithDetail("source", source)
		}
	}

	info, err := r.fs.Lstat(target)
	switch {
	case stderrors.Is(err, fs.ErrNotExist) || os.IsNotExist(err):
		c.Action = change.Created
	case err != nil:
		return c, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", target)
	case info.Mode()&fs.ModeSymlink != 0:
		current, err := r.fs.Readlink(target)
		if err != nil {
			return c, errors.Wrapf(err, errors.ErrSymlink, "failed to read link %s", target)
		}
		if current == source {
			c.Action = change.Unchanged
			return c, nil
		}
		c.Action = change.Updated
		c.Detail = "relinked from " + current
	default:
		backup := target + BackupSuffix
		if ok, _ := filesystem.Exists(r.fs, backup); ok {
			return c, errors.Newf(errors.ErrFileAccess, "cannot back up %s: %s already exists", target, backup)
		}
		c.Action = change.Updated
		c.Detail = "backed up to " + backup
	}

	if r.dryRun {
		return c, nil
	}

	switch {
	case c.Action == change.Updated && info.Mode()&fs.ModeSymlink != 0:
		if err := r.fs.Remove(target); err != nil {
			return c, errors.Wrapf(err, errors.ErrSymlink, "failed to remove link %s", target)
		}
	case c.Action == change.Updated:
		if err := r.fs.Rename(target, target+BackupSuffix); err != nil {
			return c, errors.Wrapf(err, errors.ErrFileWrite, "failed to back up %s", target)
		}
	}

	if err := r.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return c, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", target)
	}
	if err := r.fs.Symlink(source, target); err != nil {
		return c, errors.Wrapf(err, errors.ErrSymlink, "failed to link %s", target)
	}
	r.logger.Info().Str("source", source).Str("target", target).Msg("Linked")
	return c, nil
}
