package snapper

import (
	"bytes"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

// Hook file names. Pacman runs hooks in lexical order, so the pre hook
// sorts first and the post hook last.
const (
	PreHookName  = "00-snapper-pre.hook"
	PostHookName = "zz-snapper-post.hook"
)

// Hook describes a pacman hook that takes a snapshot.
type Hook struct {
	Name        string
	Description string
	When        string
	Type        string
}

// Hooks returns the pre and post transaction hooks.
func Hooks() []Hook {
	return []Hook{
		{Name: PreHookName, Description: "Creating snapper pre-transaction snapshot...", When: "PreTransaction", Type: "pre"},
		{Name: PostHookName, Description: "Creating snapper post-transaction snapshot...", When: "PostTransaction", Type: "post"},
	}
}

// Exec returns the hook command line.
func (h Hook) Exec(config string) string {
	return fmt.Sprintf("/usr/bin/snapper --no-dbus -c %s create -t %s --cleanup-algorithm number --description pacman", config, h.Type)
}

// Render produces the hook file. Operation is a repeated key, which ini
// models as shadow values.
func (h Hook) Render(config string) ([]byte, error) {
	f := ini.Empty(ini.LoadOptions{AllowShadows: true, AllowBooleanKeys: true})

	trigger, err := f.NewSection("Trigger")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to build hook")
	}
	op, err := trigger.NewKey("Operation", "Upgrade")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to build hook")
	}
	for _, v := range []string{"Install", "Remove"} {
		if err := op.AddShadow(v); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to build hook")
		}
	}
	for _, kv := range [][2]string{{"Type", "Package"}, {"Target", "*"}} {
		if _, err := trigger.NewKey(kv[0], kv[1]); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to build hook")
		}
	}

	action, err := f.NewSection("Action")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to build hook")
	}
	for _, kv := range [][2]string{
		{"Description", h.Description},
		{"Depends", "snapper"},
		{"When", h.When},
		{"Exec", h.Exec(config)},
	} {
		if _, err := action.NewKey(kv[0], kv[1]); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to build hook")
		}
	}
	if h.Type == "pre" {
		if _, err := action.NewBooleanKey("AbortOnFail"); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to build hook")
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render hook")
	}
	return buf.Bytes(), nil
}

// ParseHook reads a hook file back, returning its Exec line.
func ParseHook(data []byte) (string, error) {
	f, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true, AllowBooleanKeys: true}, data)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileParse, "invalid pacman hook")
	}
	return f.Section("Action").Key("Exec").String(), nil
}
