// Package gpu switches between integrated, hybrid and discrete graphics and
// keeps Hyprland's environment in step with the active mode.
package gpu

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/desktop"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
	"github.com/arthur-debert/omarchy-setup/pkg/state"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

const component = "gpu"

// Switcher changes the GPU mode.
type Switcher struct {
	editor   *textedit.Editor
	runner   runner.Runner
	store    *state.Store
	paths    *paths.Paths
	cfg      config.GPU
	hyprConf string
	logger   zerolog.Logger
}

// New creates a Switcher. hyprConf is the hyprland.conf that must source
// the GPU env file, unexpanded.
func New(editor *textedit.Editor, r runner.Runner, store *state.Store, p *paths.Paths, cfg config.GPU, hyprConf string) *Switcher {
	return &Switcher{
		editor:   editor,
		runner:   r,
		store:    store,
		paths:    p,
		cfg:      cfg,
		hyprConf: hyprConf,
		logger:   logging.GetLogger("gpu"),
	}
}

// Modes returns the configured mode names, sorted.
func (s *Switcher) Modes() []string {
	names := make([]string, 0, len(s.cfg.Modes))
	for name := range s.cfg.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnvFile returns the resolved path of the Hyprland env drop-in.
func (s *Switcher) EnvFile() string {
	return s.paths.Expand(s.cfg.EnvFile)
}

// HyprlandConfig returns the resolved hyprland.conf path.
func (s *Switcher) HyprlandConfig() string {
	return s.paths.Expand(s.hyprConf)
}

func (s *Switcher) mode(name string) (config.GPUMode, error) {
	m, ok := s.cfg.Modes[name]
	if !ok {
		return m, errors.Newf(errors.ErrInvalidInput, "unknown GPU mode %q (valid: %s)", name, strings.Join(s.Modes(), ", ")).
			WithDetail("modes", s.Modes())
	}
	if m.Arg == "" {
		return m, errors.Newf(errors.ErrConfigValid, "GPU mode %q has no switch argument", name)
	}
	return m, nil
}

// Apply switches to the configured mode, if any.
func (s *Switcher) Apply(ctx context.Context) ([]change.Change, error) {
	if s.cfg.Mode == "" {
		return []change.Change{{Component: component, Target: "mode", Action: change.Skipped, Detail: "no mode configured"}}, nil
	}
	return s.Switch(ctx, s.cfg.Mode)
}

// Switch runs the switch tool, rewrites the env drop-in, makes sure
// hyprland.conf sources it, records the mode and restarts the GPU daemon.
func (s *Switcher) Switch(ctx context.Context, name string) ([]change.Change, error) {
	m, err := s.mode(name)
	if err != nil {
		return nil, err
	}
	cmd, err := runner.Parse(s.cfg.SwitchCommand)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid gpu.switch_command")
	}
	if err := runner.RequireTools(s.runner, cmd.Name); err != nil {
		return nil, err
	}

	var changes []change.Change
	cmd = cmd.With(m.Arg)
	if _, err := s.runner.Run(ctx, cmd); err != nil {
		return []change.Change{{Component: component, Target: name, Action: change.Failed, Detail: cmd.String()}}, err
	}
	changes = append(changes, change.Change{Component: component, Target: name, Action: change.Executed, Detail: cmd.String()})
	s.logger.Info().Str("mode", name).Msg("GPU mode switched")

	c, err := s.editor.WriteContent(component, s.EnvFile(), 0644, []byte(RenderEnv(name, m.Env)))
	if err != nil {
		return changes, err
	}
	changes = append(changes, c)

	c, err = s.editor.Apply(component, s.HyprlandConfig(), 0644, func(old []byte, _ bool) ([]byte, error) {
		if s.sourcesEnvFile(string(old)) {
			return old, nil
		}
		patched, _ := textedit.EnsureLines(string(old), []string{"source = " + s.EnvFile()})
		return []byte(patched), nil
	})
	if err != nil {
		return changes, err
	}
	if c.Action != change.Unchanged {
		c.Detail = "source line added"
	}
	changes = append(changes, c)

	changed, err := s.store.Set(state.KeyGPUMode, name)
	if err != nil {
		return changes, err
	}
	recorded := change.Change{Component: component, Target: s.store.Path(state.KeyGPUMode), Action: change.Unchanged}
	if changed {
		recorded.Action = change.Updated
		recorded.Detail = name
	}
	changes = append(changes, recorded)

	return append(changes, s.restartService(ctx)...), nil
}

// RenderEnv produces the env drop-in for a mode.
func RenderEnv(mode string, env []string) string {
	var b strings.Builder
	b.WriteString("# Generated by omarchy-setup for GPU mode " + mode + ".\n")
	for _, line := range env {
		b.WriteString(strings.TrimSpace(line))
		b.WriteByte('\n')
	}
	return b.String()
}

// sourcesEnvFile reports whether content has a source line that resolves
// to the env drop-in, however the path is spelled.
func (s *Switcher) sourcesEnvFile(content string) bool {
	want := filepath.Clean(s.EnvFile())
	for _, l := range textedit.SplitLines(content) {
		v, ok := strings.CutPrefix(desktop.NormalizeHyprLine(l), "source=")
		if ok && filepath.Clean(s.paths.Expand(v)) == want {
			return true
		}
	}
	return false
}

func (s *Switcher) restartService(ctx context.Context) []change.Change {
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

// Status is what the switch tool reports alongside the recorded mode.
type Status struct {
	Reported string `json:"reported"`
	Recorded string `json:"recorded"`
}

// Status queries the switch tool and reads the recorded mode.
func (s *Switcher) Status(ctx context.Context) (*Status, error) {
	st := &Status{}
	recorded, _, err := s.store.Get(state.KeyGPUMode)
	if err != nil {
		return nil, err
	}
	st.Recorded = recorded

	cmd, err := runner.Parse(s.cfg.StatusCommand)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid gpu.status_command")
	}
	if err := runner.RequireTools(s.runner, cmd.Name); err != nil {
		return st, err
	}
	res, err := s.runner.Run(ctx, cmd.AsQuery())
	if err != nil {
		return st, err
	}
	st.Reported = strings.TrimSpace(res.Stdout)
	return st, nil
}
