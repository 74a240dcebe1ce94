// Package change records what each provisioning step did to the machine.
package change

import "fmt"

// Action is the outcome of a single guarded step.
type Action string

const (
	Created   Action = "created"
	Updated   Action = "updated"
	Unchanged Action = "unchanged"
	Skipped   Action = "skipped"
	Removed   Action = "removed"
	Executed  Action = "executed"
	Failed    Action = "failed"
)

// Change describes one mutation (or deliberate non-mutation) of a target.
type Change struct {
	Component string
	Target    string
	Action    Action
	Detail    string
}

func (c Change) String() string {
	if c.Detail == "" {
		return fmt.Sprintf("%s %s: %s", c.Component, c.Action, c.Target)
	}
	return fmt.Sprintf("%s %s: %s (%s)", c.Component, c.Action, c.Target, c.Detail)
}

// Mutated reports whether the change altered system state.
func (c Change) Mutated() bool {
	switch c.Action {
	case Created, Updated, Removed, Executed:
		return true
	}
	return false
}

// Report accumulates changes in the order they happened.
type Report struct {
	Changes []Change
}

// Add appends changes to the report.
func (r *Report) Add(changes ...Change) {
	r.Changes = append(r.Changes, changes...)
}

// Count returns the number of changes with the given action.
func (r *Report) Count(action Action) int {
	n := 0
	for _, c := range r.Changes {
		if c.Action == action {
			n++
		}
	}
	return n
}

// Mutations returns the number of changes that altered system state.
func (r *Report) Mutations() int {
	n := 0
	for _, c := range r.Changes {
		if c.Mutated() {
			n++
		}
	}
	return n
}

// ForComponent returns the changes recorded by one component.
func (r *Report) ForComponent(component string) []Change {
	var out []Change
	for _, c := range r.Changes {
		if c.Component == component {
			out = append(out, c)
		}
	}
	return out
}
