package ui

import (
	_ "embed"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

//go:embed embedded/styles.yaml
var defaultStyles []byte

// ColorDef is an adaptive color definition.
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style definition referencing named colors.
type StyleDef struct {
	Bold        bool   `yaml:"bold,omitempty"`
	Italic      bool   `yaml:"italic,omitempty"`
	Underline   bool   `yaml:"underline,omitempty"`
	Foreground  string `yaml:"foreground,omitempty"`
	Background  string `yaml:"background,omitempty"`
	PaddingLeft int    `yaml:"paddingLeft,omitempty"`
}

// StylesConfig is the styles.yaml document.
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Styles maps semantic names to lipgloss styles bound to one renderer.
type Styles struct {
	renderer *lipgloss.Renderer
	styles   map[string]lipgloss.Style
}

// LoadStyles builds styles from YAML data for renderer.
func LoadStyles(data []byte, renderer *lipgloss.Renderer) (*Styles, error) {
	var cfg StylesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse styles")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	s := &Styles{renderer: renderer, styles: make(map[string]lipgloss.Style, len(cfg.Styles))}
	for name, def := range cfg.Styles {
		s.styles[name] = buildStyle(renderer.NewStyle(), def, colors)
	}
	return s, nil
}

// DefaultStyles returns the embedded styles for renderer.
func DefaultStyles(renderer *lipgloss.Renderer) *Styles {
	s, err := LoadStyles(defaultStyles, renderer)
	if err != nil {
		panic("embedded styles.yaml is invalid: " + err.Error())
	}
	return s
}

func buildStyle(style lipgloss.Style, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if c, ok := colors[def.Foreground]; ok {
		style = style.Foreground(c)
	}
	if c, ok := colors[def.Background]; ok {
		style = style.Background(c)
	}
	if def.PaddingLeft > 0 {
		style = style.PaddingLeft(def.PaddingLeft)
	}
	return style
}

// Has reports whether name is defined.
func (s *Styles) Has(name string) bool {
	_, ok := s.styles[name]
	return ok
}

// Get returns the named style, or an empty style.
func (s *Styles) Get(name string) lipgloss.Style {
	if style, ok := s.styles[name]; ok {
		return style
	}
	return s.renderer.NewStyle()
}

// Render applies the named style to text.
func (s *Styles) Render(name, text string) string {
	return s.Get(name).Render(text)
}
