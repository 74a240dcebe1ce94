package dotfiles

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/plumbing/format/config"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// DefaultGitConfig is used when git.file is empty.
const DefaultGitConfig = "~/.gitconfig"

// GitKey is a parsed "section[.subsection].option" key.
type GitKey struct {
	Section    string
	Subsection string
	Option     string
}

// ParseGitKey splits key at its first and last dot. Subsections may contain
// dots themselves, as in url.https://example.com/.insteadOf.
func ParseGitKey(key string) (GitKey, error) {
	first := strings.Index(key, ".")
	last := strings.LastIndex(key, ".")
	if first <= 0 || last == len(key)-1 {
		return GitKey{}, errors.Newf(errors.ErrInvalidInput, "invalid git config key %q", key)
	}
	k := GitKey{Section: key[:first], Option: key[last+1:]}
	if last > first {
		k.Subsection = key[first+1 : last]
	}
	return k, nil
}

func (k GitKey) get(cfg *gitconfig.Config) (string, bool) {
	if !cfg.HasSection(k.Section) {
		return "", false
	}
	sec := cfg.Section(k.Section)
	opts := sec.Options
	if k.Subsection != "" {
		if !sec.HasSubsection(k.Subsection) {
			return "", false
		}
		opts = sec.Subsection(k.Subsection).Options
	}
	if !opts.Has(k.Option) {
		return "", false
	}
	return opts.Get(k.Option), true
}

// Git sets options in the user's gitconfig.
type Git struct {
	editor *textedit.Editor
	paths  *paths.Paths
	cfg    config.Git
}

// NewGit creates a Git configurator.
func NewGit(editor *textedit.Editor, p *paths.Paths, cfg config.Git) *Git {
	return &Git{editor: editor, paths: p, cfg: cfg}
}

// File returns the resolved gitconfig path.
func (g *Git) File() string {
	if g.cfg.File == "" {
		return g.paths.Expand(DefaultGitConfig)
	}
	return g.paths.Expand(g.cfg.File)
}

// Apply writes the configured options. The file is only re-encoded when a
// value differs, since encoding drops comments.
func (g *Git) Apply(_ context.Context) ([]change.Change, error) {
	var updated []string
	c, err := g.editor.Apply("git", g.File(), 0644, func(old []byte, _ bool) ([]byte, error) {
		cfg := gitconfig.New()
		if err := gitconfig.NewDecoder(bytes.NewReader(old)).Decode(cfg); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileParse, "failed to parse %s", g.File())
		}

		for _, s := range g.cfg.Settings {
			key, err := ParseGitKey(s.Key)
			if err != nil {
				return nil, err
			}
			want := fmt.Sprint(s.Value)
			if have, ok := key.get(cfg); ok && have == want {
				continue
			}
			cfg.SetOption(key.Section, key.Subsection, key.Option, want)
			updated = append(updated, s.Key)
		}
		if len(updated) == 0 {
			return old, nil
		}

		var buf bytes.Buffer
		if err := gitconfig.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode gitconfig")
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		return nil, err
	}
	if len(updated) > 0 {
		c.Detail = "set " + strings.Join(updated, ", ")
	}
	return []change.Change{c}, nil
}
