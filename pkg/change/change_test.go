package change

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	var r Report
	r.Add(
		Change{Component: "packages", Target: "ripgrep", Action: Executed},
		Change{Component: "packages", Target: "packages.list", Action: Updated},
		Change{Component: "shell", Target: "~/.bashrc", Action: Unchanged},
		Change{Component: "snapper", Target: "snapperd", Action: Failed, Detail: "best-effort"},
	)

	assert.Equal(t, 2, r.Mutations())
	assert.Equal(t, 1, r.Count(Unchanged))
	assert.Equal(t, 1, r.Count(Failed))
	assert.Len(t, r.ForComponent("packages"), 2)
	assert.Empty(t, r.ForComponent("gpu"))
}

func TestChangeString(t *testing.T) {
	c := Change{Component: "gpu", Target: "supergfxd", Action: Failed, Detail: "exit status 1"}
	assert.Equal(t, "gpu failed: supergfxd (exit status 1)", c.String())

	c = Change{Component: "shell", Target: "/home/u/.bashrc", Action: Created}
	assert.Equal(t, "shell created: /home/u/.bashrc", c.String())
}
