package disk

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
	"github.com/arthur-debert/omarchy-setup/pkg/textedit"
)

// ConfirmFunc asks the user to approve a destructive action.
type ConfirmFunc func(prompt string) (bool, error)

// Options controls Check and Layout.
type Options struct {
	// Force skips the confirmation prompt.
	Force bool
	// DryRun skips the root check and reports UUIDs as placeholders.
	DryRun bool
	// PlanOnly checks only what planning needs: tools, block device and
	// partition name.
	PlanOnly bool
}

// Layouter checks preconditions and applies a Plan.
type Layouter struct {
	runner  runner.Runner
	system  System
	editor  *textedit.Editor
	confirm ConfirmFunc
	logger  zerolog.Logger
}

// NewLayouter creates a Layouter.
func NewLayouter(r runner.Runner, sys System, editor *textedit.Editor, confirm ConfirmFunc) *Layouter {
	return &Layouter{runner: r, system: sys, editor: editor, confirm: confirm, logger: logging.GetLogger("disk")}
}

// Plan resolves device to its kernel node and builds the layout for it.
// Partition names and the mount check need the real node, not a
// /dev/disk/by-id link.
func (l *Layouter) Plan(device string, cfg config.Disk) (*Plan, error) {
	if device == "" {
		return nil, errors.New(errors.ErrInvalidInput, "device must not be empty")
	}
	resolved, err := l.system.Resolve(device)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotBlockDevice, "cannot access %s", device).WithDetail("device", device)
	}
	if resolved != device {
		l.logger.Debug().Str("device", device).Str("resolved", resolved).Msg("Resolved device link")
	}
	return Build(resolved, cfg)
}

// Check verifies the preconditions in order and fails at the first one
// that does not hold.
func (l *Layouter) Check(p *Plan, opts Options) error {
	if err := runner.RequireTools(l.runner, RequiredTools...); err != nil {
		return err
	}

	if !opts.PlanOnly && !opts.DryRun && l.system.Geteuid() != 0 {
		return errors.New(errors.ErrPermission, "disk layout must run as root (use sudo)")
	}

	isBlock, err := l.system.IsBlockDevice(p.Device)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNotBlockDevice, "cannot access %s", p.Device).WithDetail("device", p.Device)
	}
	if !isBlock {
		return errors.Newf(errors.ErrNotBlockDevice, "%s is not a block device", p.Device).WithDetail("device", p.Device)
	}

	if LooksLikePartition(p.Device) || l.system.IsPartition(p.Device) {
		return errors.Newf(errors.ErrIsPartition, "%s is a partition; pass the whole disk (e.g. /dev/sda, /dev/nvme0n1)", p.Device).
			WithDetail("device", p.Device)
	}

	if opts.PlanOnly {
		return nil
	}

	mounts, err := l.system.Mounts()
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "failed to read mount table")
	}
	if busy := MountsOf(mounts, p.Device); len(busy) > 0 {
		var where []string
		for _, m := range busy {
			where = append(where, fmt.Sprintf("%s on %s", m.Device, m.Mountpoint))
		}
		return errors.Newf(errors.ErrDeviceBusy, "%s is in use: %s; unmount it first", p.Device, strings.Join(where, ", ")).
			WithDetail("mounts", where)
	}

	if opts.Force {
		return nil
	}
	ok, err := l.confirm(fmt.Sprintf("This erases every partition on %s. Continue?", p.Device))
	if err != nil {
		return errors.Wrap(err, errors.ErrAborted, "confirmation failed")
	}
	if !ok {
		return errors.Newf(errors.ErrAborted, "layout of %s cancelled", p.Device)
	}
	return nil
}

// Layout checks the preconditions and runs every step of p.
func (l *Layouter) Layout(ctx context.Context, p *Plan, opts Options) ([]change.Change, error) {
	if err := l.Check(p, opts); err != nil {
		return nil, err
	}

	var changes []change.Change
	for _, step := range p.Steps {
		if step.Kind == StepFstab {
			c, err := l.writeFstab(ctx, p, opts.DryRun)
			if err != nil {
				return changes, err
			}
			changes = append(changes, c)
			continue
		}

		l.logger.Info().Int("phase", step.Phase).Str("command", step.Command.String()).Msg(step.Title)
		c := change.Change{Component: "disk", Target: p.Device, Action: change.Executed, Detail: step.Command.String()}
		if _, err := l.runner.Run(ctx, step.Command); err != nil {
			c.Action = change.Failed
			return append(changes, c), err
		}
		changes = append(changes, c)
	}
	return changes, nil
}

// UUID asks blkid for the filesystem UUID of dev.
func (l *Layouter) UUID(ctx context.Context, dev string) (string, error) {
	res, err := l.runner.Run(ctx, runner.Query("blkid", "-s", "UUID", "-o", "value", dev))
	if err != nil {
		return "", err
	}
	uuid := strings.TrimSpace(res.Stdout)
	if uuid == "" {
		return "", errors.Newf(errors.ErrNotFound, "blkid reported no UUID for %s", dev)
	}
	return uuid, nil
}

func (l *Layouter) writeFstab(ctx context.Context, p *Plan, dryRun bool) (change.Change, error) {
	var rootUUID, espUUID string
	if dryRun {
		rootUUID = "<uuid-of-" + p.Root + ">"
		espUUID = "<uuid-of-" + p.ESP + ">"
	} else {
		var err error
		if rootUUID, err = l.UUID(ctx, p.Root); err != nil {
			return change.Change{Component: "disk", Target: p.FstabPath()}, err
		}
		if espUUID, err = l.UUID(ctx, p.ESP); err != nil {
			return change.Change{Component: "disk", Target: p.FstabPath()}, err
		}
	}
	return l.editor.EnsureLines("disk", p.FstabPath(), p.FstabLines(rootUUID, espUUID))
}
