package snapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"github.com/arthur-debert/omarchy-setup/pkg/snapper"
)

func TestRenderHooks(t *testing.T) {
	hooks := snapper.Hooks()
	require.Len(t, hooks, 2)
	assert.Equal(t, snapper.PreHookName, hooks[0].Name)
	assert.Equal(t, snapper.PostHookName, hooks[1].Name)

	for _, h := range hooks {
		t.Run(h.Name, func(t *testing.T) {
			data, err := h.Render("root")
			require.NoError(t, err)

			f, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true, AllowBooleanKeys: true}, data)
			require.NoError(t, err)

			trigger := f.Section("Trigger")
			assert.Equal(t, []string{"Upgrade", "Install", "Remove"}, trigger.Key("Operation").ValueWithShadows())
			assert.Equal(t, "Package", trigger.Key("Type").String())
			assert.Equal(t, "*", trigger.Key("Target").String())

			action := f.Section("Action")
			assert.Equal(t, "snapper", action.Key("Depends").String())
			assert.Equal(t, h.When, action.Key("When").String())
			assert.Equal(t, h.Type == "pre", action.HasKey("AbortOnFail"))

			exec, err := snapper.ParseHook(data)
			require.NoError(t, err)
			assert.Equal(t, h.Exec("root"), exec)
			assert.Contains(t, exec, "--no-dbus -c root create -t "+h.Type)
		})
	}
}

func TestParseHookRejectsGarbage(t *testing.T) {
	_, err := snapper.ParseHook([]byte("[Action\nExec"))
	assert.Error(t, err)
}
