package desktop

import (
	"context"
	"strings"

	"github.com/beevik/etree"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/paths"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

const fontconfigDoctype = `DOCTYPE fontconfig SYSTEM "urn:fontconfig:fonts.dtd"`

// Fonts maintains generic family preferences in fonts.conf.
type Fonts struct {
	editor *textedit.Editor
	paths  *paths.Paths
	cfg    config.Fonts
}

// NewFonts creates a fontconfig patcher.
func NewFonts(editor *textedit.Editor, p *paths.Paths, cfg config.Fonts) *Fonts {
	return &Fonts{editor: editor, paths: p, cfg: cfg}
}

// ConfigFile returns the resolved fonts.conf path.
func (f *Fonts) ConfigFile() string {
	return f.paths.Expand(f.cfg.ConfigFile)
}

// Preferences maps generic family names to preferred families.
func (f *Fonts) Preferences() []FamilyPreference {
	var prefs []FamilyPreference
	for _, p := range []FamilyPreference{
		{Generic: "monospace", Families: f.cfg.Monospace},
		{Generic: "sans-serif", Families: f.cfg.SansSerif},
		{Generic: "serif", Families: f.cfg.Serif},
	} {
		if len(p.Families) > 0 {
			prefs = append(prefs, p)
		}
	}
	return prefs
}

// Apply writes the alias entries.
func (f *Fonts) Apply(_ context.Context) ([]change.Change, error) {
	prefs := f.Preferences()
	c, err := f.editor.Apply("fonts", f.ConfigFile(), 0644, func(old []byte, _ bool) ([]byte, error) {
		if len(prefs) == 0 {
			return old, nil
		}
		return PatchFontconfig(old, prefs)
	})
	if err != nil {
		return nil, err
	}
	return []change.Change{c}, nil
}

// FamilyPreference is one <alias> entry.
type FamilyPreference struct {
	Generic  string
	Families []string
}

// PatchFontconfig ensures an alias for each generic family whose <prefer>
// list matches. Other elements are kept.
func PatchFontconfig(data []byte, prefs []FamilyPreference) ([]byte, error) {
	doc := etree.NewDocument()
	if len(strings.TrimSpace(string(data))) == 0 {
		doc.CreateProcInst("xml", `version="1.0"`)
		doc.CreateDirective(fontconfigDoctype)
		doc.CreateElement("fontconfig")
	} else if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrFileParse, "invalid fontconfig XML")
	}

	root := doc.SelectElement("fontconfig")
	if root == nil {
		return nil, errors.New(errors.ErrFileParse, "fontconfig file has no <fontconfig> root element")
	}

	changed := len(data) == 0
	for _, p := range prefs {
		if ensureAlias(root, p) {
			changed = true
		}
	}
	if !changed {
		return data, nil
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode fontconfig")
	}
	return out, nil
}

func ensureAlias(root *etree.Element, p FamilyPreference) bool {
	var alias *etree.Element
	for _, a := range root.SelectElements("alias") {
		if fam := a.SelectElement("family"); fam != nil && strings.TrimSpace(fam.Text()) == p.Generic {
			alias = a
			break
		}
	}
	if alias == nil {
		alias = root.CreateElement("alias")
		alias.CreateElement("family").SetText(p.Generic)
	}

	prefer := alias.SelectElement("prefer")
	if prefer != nil && sameFamilies(prefer, p.Families) {
		return false
	}
	if prefer != nil {
		alias.RemoveChild(prefer)
	}
	prefer = alias.CreateElement("prefer")
	for _, fam := range p.Families {
		prefer.CreateElement("family").SetText(fam)
	}
	return true
}

func sameFamilies(prefer *etree.Element, want []string) bool {
	have := prefer.SelectElements("family")
	if len(have) != len(want) {
		return false
	}
	for i, el := range have {
		if strings.TrimSpace(el.Text()) != want[i] {
			return false
		}
	}
	return true
}
