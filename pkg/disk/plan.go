package disk

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/docker/go-units"
	"github.com/dustin/go-humanize"

	"github.com/arthur-debert/omarchy-setup/pkg/config"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
)

const (
	mib = 1024 * 1024
	// espStartMiB leaves the first MiB for the GPT and alignment.
	espStartMiB = 1
	minESPSize  = 32 * mib
)

// StepKind distinguishes command steps from the fstab step.
type StepKind int

const (
	// StepCommand runs Step.Command.
	StepCommand StepKind = iota
	// StepFstab appends the fstab entries once UUIDs are known.
	StepFstab
)

// Step is one stage of the layout.
type Step struct {
	Phase   int
	Kind    StepKind
	Title   string
	Command runner.Command
}

// String renders the step for plan output.
func (s Step) String() string {
	if s.Kind == StepFstab {
		return s.Title
	}
	return s.Command.String()
}

// Plan is the full layout of one device.
type Plan struct {
	Device     string
	ESP        string
	Root       string
	ESPSize    uint64
	ESPEnd     string
	ESPLabel   string
	RootLabel  string
	Target     string
	Options    string
	Subvolumes []config.Subvolume
	Steps      []Step
}

// RequiredTools lists the binaries Layout needs.
var RequiredTools = []string{"parted", "mkfs.fat", "mkfs.btrfs", "btrfs", "mount", "umount", "blkid", "wipefs"}

// Phase titles, numbered as printed by "disk plan".
var phaseTitles = map[int]string{
	1: "Wipe existing signatures",
	2: "Create GPT label",
	3: "Create EFI system partition",
	4: "Create Btrfs root partition",
	5: "Create filesystems",
	6: "Create subvolumes",
	7: "Mount subvolumes and ESP",
	8: "Write fstab",
}

// PhaseTitle returns the heading of a phase.
func PhaseTitle(phase int) string { return phaseTitles[phase] }

// Build computes the layout plan for device.
func Build(device string, cfg config.Disk) (*Plan, error) {
	if device == "" {
		return nil, errors.New(errors.ErrInvalidInput, "device must not be empty")
	}

	espSize, err := units.RAMInBytes(cfg.ESPSize)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid disk.esp_size %q", cfg.ESPSize)
	}
	if espSize < minESPSize {
		return nil, errors.Newf(errors.ErrConfigValid, "disk.esp_size %s is below the %s minimum",
			humanize.IBytes(uint64(espSize)), humanize.IBytes(minESPSize))
	}

	subvols, err := orderSubvolumes(cfg.Subvolumes)
	if err != nil {
		return nil, err
	}

	target := path.Clean(cfg.MountTarget)
	if !path.IsAbs(target) {
		return nil, errors.Newf(errors.ErrConfigValid, "disk.mount_target %q must be absolute", cfg.MountTarget)
	}

	p := &Plan{
		Device:     device,
		ESP:        PartitionPath(device, 1),
		Root:       PartitionPath(device, 2),
		ESPSize:    uint64(espSize),
		ESPEnd:     fmt.Sprintf("%dMiB", espStartMiB+(espSize+mib-1)/mib),
		Target:     target,
		Options:    cfg.MountOptions,
		Subvolumes: subvols,
		ESPLabel:   cfg.ESPLabel,
		RootLabel:  cfg.RootLabel,
	}
	p.Steps = p.steps()
	return p, nil
}

// orderSubvolumes checks that one subvolume is mounted at / and sorts the
// rest so parents are mounted before children.
func orderSubvolumes(in []config.Subvolume) ([]config.Subvolume, error) {
	out := append([]config.Subvolume(nil), in...)
	hasRoot := false
	seen := map[string]bool{}
	for _, sv := range out {
		if seen[sv.Mountpoint] {
			return nil, errors.Newf(errors.ErrConfigValid, "two subvolumes are mounted at %s", sv.Mountpoint)
		}
		seen[sv.Mountpoint] = true
		if sv.Mountpoint == "/" {
			hasRoot = true
		}
	}
	if !hasRoot {
		return nil, errors.New(errors.ErrConfigValid, "disk.subvolumes needs a subvolume mounted at /")
	}
	sort.SliceStable(out, func(i, j int) bool {
		return depth(out[i].Mountpoint) < depth(out[j].Mountpoint)
	})
	return out, nil
}

func depth(mountpoint string) int {
	if mountpoint == "/" {
		return 0
	}
	return strings.Count(path.Clean(mountpoint), "/")
}

func (p *Plan) mountpoint(mp string) string {
	return path.Join(p.Target, mp)
}

func (p *Plan) subvolOptions(name string) string {
	opts := "subvol=" + name
	if p.Options != "" {
		opts = p.Options + "," + opts
	}
	return opts
}

func (p *Plan) steps() []Step {
	var steps []Step
	add := func(phase int, name string, args ...string) {
		steps = append(steps, Step{Phase: phase, Kind: StepCommand, Title: phaseTitles[phase], Command: runner.New(name, args...)})
	}
	parted := func(phase int, args ...string) {
		add(phase, "parted", append([]string{"-s", p.Device}, args...)...)
	}

	add(1, "wipefs", "-a", p.Device)
	parted(2, "mklabel", "gpt")
	parted(3, "mkpart", "ESP", "fat32", fmt.Sprintf("%dMiB", espStartMiB), p.ESPEnd)
	parted(3, "set", "1", "esp", "on")
	parted(4, "mkpart", "root", "btrfs", p.ESPEnd, "100%")

	add(5, "mkfs.fat", "-F32", "-n", p.ESPLabel, p.ESP)
	add(5, "mkfs.btrfs", "-f", "-L", p.RootLabel, p.Root)

	add(6, "mount", p.Root, p.Target)
	for _, sv := range p.Subvolumes {
		add(6, "btrfs", "subvolume", "create", path.Join(p.Target, sv.Name))
	}
	add(6, "umount", p.Target)

	for _, sv := range p.Subvolumes {
		mp := p.mountpoint(sv.Mountpoint)
		if sv.Mountpoint != "/" {
			add(7, "mkdir", "-p", mp)
		}
		add(7, "mount", "-o", p.subvolOptions(sv.Name), p.Root, mp)
	}
	boot := p.mountpoint("/boot")
	add(7, "mkdir", "-p", boot)
	add(7, "mount", p.ESP, boot)

	steps = append(steps, Step{Phase: 8, Kind: StepFstab, Title: "append fstab entries to " + p.FstabPath()})
	return steps
}

// FstabPath is the fstab of the installed system.
func (p *Plan) FstabPath() string {
	return path.Join(p.Target, "etc", "fstab")
}

// FstabLines renders the entries for the given filesystem UUIDs.
func (p *Plan) FstabLines(rootUUID, espUUID string) []string {
	var lines []string
	for _, sv := range p.Subvolumes {
		lines = append(lines, fmt.Sprintf("UUID=%s\t%s\tbtrfs\t%s\t0 0", rootUUID, sv.Mountpoint, p.subvolOptions("/"+sv.Name)))
	}
	lines = append(lines, fmt.Sprintf("UUID=%s\t/boot\tvfat\tdefaults,umask=0077\t0 2", espUUID))
	return lines
}

// Summary describes the partitions in human terms.
func (p *Plan) Summary() []string {
	return []string{
		fmt.Sprintf("%s: EFI system partition, %s, FAT32, label %s", p.ESP, humanize.IBytes(p.ESPSize), p.ESPLabel),
		fmt.Sprintf("%s: Btrfs root, rest of disk, label %s", p.Root, p.RootLabel),
	}
}
