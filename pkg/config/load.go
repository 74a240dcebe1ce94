package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	setuperrors "github.com/arthur-debert/omarchy-setup/pkg/errors"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nesting levels: OMARCHY_SETUP_GPU__MODE=nvidia sets gpu.mode.
const EnvPrefix = "OMARCHY_SETUP_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultContent returns the embedded default configuration file.
func DefaultContent() []byte {
	return defaultConfig
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// File is the user config file. A missing file is only an error when
	// Explicit is set.
	File     string
	Explicit bool
	// Overrides are applied last, keyed by dotted path.
	Overrides map[string]interface{}
}

// Load merges defaults, the user file, the environment and overrides.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, setuperrors.Wrap(err, setuperrors.ErrConfigParse, "failed to load defaults")
	}

	if opts.File != "" {
		if err := loadFile(k, opts.File, opts.Explicit); err != nil {
			return nil, err
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, setuperrors.Wrap(err, setuperrors.ErrConfigLoad, "failed to load environment")
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, setuperrors.Wrap(err, setuperrors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, setuperrors.Wrap(err, setuperrors.ErrConfigParse, "failed to decode configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string, explicit bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return setuperrors.Wrapf(err, setuperrors.ErrConfigLoad, "config file %s not readable", path)
	}

	var parser koanf.Parser = toml.Parser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return setuperrors.Wrapf(err, setuperrors.ErrConfigParse, "failed to parse %s", path)
	}
	return nil
}

// Validate checks cross-field constraints that decoding cannot express.
func (c *Config) Validate() error {
	if c.Packages.Helper == "" {
		return setuperrors.New(setuperrors.ErrConfigValid, "packages.helper must not be empty")
	}
	if c.GPU.Mode != "" {
		if _, ok := c.GPU.Modes[c.GPU.Mode]; !ok {
			return setuperrors.Newf(setuperrors.ErrConfigValid, "gpu.mode %q is not one of the configured modes", c.GPU.Mode).
				WithDetail("modes", c.GPU.ModeNames())
		}
	}
	for _, sv := range c.Disk.Subvolumes {
		if !strings.HasPrefix(sv.Name, "@") {
			return setuperrors.Newf(setuperrors.ErrConfigValid, "subvolume %q must start with @", sv.Name)
		}
		if !strings.HasPrefix(sv.Mountpoint, "/") {
			return setuperrors.Newf(setuperrors.ErrConfigValid, "subvolume %s mountpoint %q must be absolute", sv.Name, sv.Mountpoint)
		}
	}
	for _, s := range c.Setup.Sections {
		if !isKnownSection(s) {
			return setuperrors.Newf(setuperrors.ErrConfigValid, "unknown setup section %q", s)
		}
	}
	return nil
}

// Sections lists every section the setup command knows, in run order.
var Sections = []string{"packages", "shell", "git", "editor", "dotfiles", "desktop", "snapper", "gpu"}

func isKnownSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}

// ModeNames returns the configured GPU mode names.
func (g GPU) ModeNames() []string {
	names := make([]string, 0, len(g.Modes))
	for name := range g.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a short human description of where config came from.
func Describe(opts LoadOptions) string {
	if opts.File == "" {
		return "built-in defaults"
	}
	if _, err := os.Stat(opts.File); err != nil {
		return fmt.Sprintf("built-in defaults (%s not found)", opts.File)
	}
	return opts.File
}
