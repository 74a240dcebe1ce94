// Package snapper configures Btrfs snapshots: snapper configs and their
// retention policy, pacman hooks around package transactions, and the
// timeline and cleanup timers.
package snapper

import (
	"bytes"
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/subosito/gotenv"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/filesystem"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// System locations, resolved under the configured root.
const (
	ConfigsDir = "/etc/snapper/configs"
	HooksDir   = "/etc/pacman.d/hooks"
	component  = "snapper"
)

// Snapper applies the snapshot policy.
type Snapper struct {
	editor *textedit.Editor
	runner runner.Runner
	paths  *paths.Paths
	cfg    config.Snapper
	logger zerolog.Logger
}

// New creates a Snapper.
func New(editor *textedit.Editor, r runner.Runner, p *paths.Paths, cfg config.Snapper) *Snapper {
	return &Snapper{editor: editor, runner: r, paths: p, cfg: cfg, logger: logging.GetLogger("snapper")}
}

// ConfigFile returns the path of the named snapper config.
func (s *Snapper) ConfigFile(name string) string {
	return s.paths.System(filepath.Join(ConfigsDir, name))
}

// HookFile returns the path of a pacman hook.
func (s *Snapper) HookFile(name string) string {
	return s.paths.System(filepath.Join(HooksDir, name))
}

// Limits returns the policy as assignments with upper-case keys, sorted.
func (s *Snapper) Limits() []textedit.Assignment {
	keys := make([]string, 0, len(s.cfg.Limits))
	for k := range s.cfg.Limits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]textedit.Assignment, 0, len(keys))
	for _, k := range keys {
		out = append(out, textedit.Assignment{Key: strings.ToUpper(k), Value: s.cfg.Limits[k]})
	}
	return out
}

// Apply runs every step in order. Only the service restart is best-effort.
func (s *Snapper) Apply(ctx context.Context) ([]change.Change, error) {
	if err := runner.RequireTools(s.runner, "snapper", "systemctl"); err != nil {
		return nil, err
	}

	var changes []change.Change
	for _, c := range s.cfg.Configs {
		cc, err := s.ensureConfig(ctx, c)
		changes = append(changes, cc...)
		if err != nil {
			return changes, err
		}
	}

	if s.cfg.PacmanHooks {
		cc, err := s.InstallHooks()
		changes = append(changes, cc...)
		if err != nil {
			return changes, err
		}
	}

	cc, err := s.EnableTimers(ctx)
	changes = append(changes, cc...)
	if err != nil {
		return changes, err
	}

	return append(changes, s.restartService(ctx)...), nil
}

func (s *Snapper) ensureConfig(ctx context.Context, c config.SnapperConfig) ([]change.Change, error) {
	path := s.ConfigFile(c.Name)
	exists, err := filesystem.Exists(s.editor.FS(), path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", path)
	}

	var changes []change.Change
	if !exists {
		cmd := runner.New("snapper", "-c", c.Name, "create-config", c.Path)
		if _, err := s.runner.Run(ctx, cmd); err != nil {
			return []change.Change{{Component: component, Target: c.Name, Action: change.Failed, Detail: cmd.String()}}, err
		}
		changes = append(changes, change.Change{Component: component, Target: c.Name, Action: change.Executed, Detail: cmd.String()})

		if s.editor.DryRun() {
			changes = append(changes, change.Change{Component: component, Target: path, Action: change.Skipped, Detail: "policy applied after create-config"})
			return changes, nil
		}
	}

	limits := s.Limits()
	if len(limits) == 0 {
		return changes, nil
	}
	cc, err := s.editor.Apply(component, path, 0640, func(old []byte, existed bool) ([]byte, error) {
		if !existed {
			return nil, errors.Newf(errors.ErrFileNotFound, "snapper did not create %s", path)
		}
		return []byte(textedit.SetAssignments(string(old), limits, textedit.ShellVars)), nil
	})
	if err != nil {
		return changes, err
	}
	return append(changes, cc), nil
}

// InstallHooks writes the pre and post transaction hooks for the first
// configured snapper config.
func (s *Snapper) InstallHooks() ([]change.Change, error) {
	name := "root"
	if len(s.cfg.Configs) > 0 {
		name = s.cfg.Configs[0].Name
	}
	var changes []change.Change
	for _, h := range Hooks() {
		content, err := h.Render(name)
		if err != nil {
			return changes, err
		}
		c, err := s.editor.WriteContent(component, s.HookFile(h.Name), 0644, content)
		if err != nil {
			return changes, err
		}
		changes = append(changes, c)
	}
	return changes, nil
}

// EnableTimers enables and starts the configured timers that are not both
// enabled and active yet.
func (s *Snapper) EnableTimers(ctx context.Context) ([]change.Change, error) {
	var changes []change.Change
	for _, timer := range s.cfg.Timers {
		c := change.Change{Component: component, Target: timer}
		if s.unitState(ctx, "is-enabled", timer) == "enabled" && s.unitState(ctx, "is-active", timer) == "active" {
			c.Action = change.Unchanged
			changes = append(changes, c)
			continue
		}
		if _, err := s.runner.Run(ctx, runner.New("systemctl", "enable", "--now", timer)); err != nil {
			c.Action = change.Failed
			return append(changes, c), err
		}
		c.Action = change.Executed
		c.Detail = "enabled"
		changes = append(changes, c)
	}
	return changes, nil
}

// unitState returns the first line systemctl prints for a state query.
// systemctl exits non-zero for disabled or missing units, which is not an
// error here.
func (s *Snapper) unitState(ctx context.Context, verb, unit string) string {
	res, _ := s.runner.Run(ctx, runner.Query("systemctl", verb, unit))
	if lines := res.Lines(); len(lines) > 0 {
		return lines[0]
	}
	return "unknown"
}

// restartService restarts the snapper daemon. Failures are logged and
// reported as a failed change, never returned.
func (s *Snapper) restartService(ctx context.Context) []change.Change {
	if s.cfg.Service == "" {
		return nil
	}
	c := change.Change{Component: component, Target: s.cfg.Service, Action: change.Executed, Detail: "restarted"}
	if _, err := s.runner.Run(ctx, runner.New("systemctl", "restart", s.cfg.Service)); err != nil {
		s.logger.Warn().Err(err).Str("service", s.cfg.Service).Msg("Best-effort restart failed")
		c.Action = change.Failed
		c.Detail = "restart failed (ignored)"
	}
	return []change.Change{c}
}

// ConfigStatus reports one snapper config.
type ConfigStatus struct {
	Name    string            `json:"name"`
	Path    string            `json:"path"`
	Present bool              `json:"present"`
	Values  map[string]string `json:"values"`
}

// HookStatus reports one pacman hook.
type HookStatus struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
	Exec    string `json:"exec"`
}

// Status is the observed snapper setup.
type Status struct {
	Configs []ConfigStatus    `json:"configs"`
	Hooks   []HookStatus      `json:"hooks"`
	Timers  map[string]string `json:"timers"`
}

// Status reads configs, hooks and timer states without changing anything.
func (s *Snapper) Status(ctx context.Context) (*Status, error) {
	st := &Status{Timers: map[string]string{}}
	fsys := s.editor.FS()

	for _, c := range s.cfg.Configs {
		cs := ConfigStatus{Name: c.Name, Path: c.Path, Values: map[string]string{}}
		data, found, err := filesystem.ReadFileOrEmpty(fsys, s.ConfigFile(c.Name))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read snapper config %s", c.Name)
		}
		if found {
			cs.Present = true
			env, err := gotenv.StrictParse(bytes.NewReader(data))
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrFileParse, "failed to parse snapper config %s", c.Name)
			}
			for _, a := range s.Limits() {
				if v, ok := env[a.Key]; ok {
					cs.Values[a.Key] = v
				}
			}
		}
		st.Configs = append(st.Configs, cs)
	}

	for _, h := range Hooks() {
		hs := HookStatus{Name: h.Name}
		data, found, err := filesystem.ReadFileOrEmpty(fsys, s.HookFile(h.Name))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read hook %s", h.Name)
		}
		if found {
			hs.Present = true
			if hs.Exec, err = ParseHook(data); err != nil {
				return nil, err
			}
		}
		st.Hooks = append(st.Hooks, hs)
	}

	for _, timer := range s.cfg.Timers {
		st.Timers[timer] = s.unitState(ctx, "is-enabled", timer)
	}
	return st, nil
}
