package disk

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

var (
	// Devices whose kernel name ends in a digit take a "p" before the
	// partition number.
	digitDisk      = regexp.MustCompile(`^(nvme\d+n\d+|mmcblk\d+|loop\d+|md\d+|nbd\d+)$`)
	digitDiskPart  = regexp.MustCompile(`^(nvme\d+n\d+|mmcblk\d+|loop\d+|md\d+|nbd\d+)p\d+$`)
	letterDiskPart = regexp.MustCompile(`^(sd|vd|hd|xvd)[a-z]+\d+$`)
)

// PartitionPath returns the device path of partition n on disk.
func PartitionPath(disk string, n int) string {
	return disk + partitionSeparator(disk) + strconv.Itoa(n)
}

func partitionSeparator(disk string) string {
	if disk != "" && disk[len(disk)-1] >= '0' && disk[len(disk)-1] <= '9' {
		return "p"
	}
	return ""
}

// LooksLikePartition reports whether dev names a partition rather than a
// whole disk (sda1, nvme0n1p2, mmcblk0p1).
func LooksLikePartition(dev string) bool {
	name := filepath.Base(dev)
	if digitDisk.MatchString(name) {
		return false
	}
	return digitDiskPart.MatchString(name) || letterDiskPart.MatchString(name)
}

// IsPartitionOf reports whether part is a partition of disk by name.
func IsPartitionOf(part, disk string) bool {
	prefix := disk + partitionSeparator(disk)
	if !strings.HasPrefix(part, prefix) || len(part) == len(prefix) {
		return false
	}
	for _, r := range part[len(prefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Mount is one entry of /proc/self/mounts.
type Mount struct {
	Device     string
	Mountpoint string
	FSType     string
}

// ParseMounts reads the mounts table format.
func ParseMounts(r io.Reader) ([]Mount, error) {
	var mounts []Mount
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		mounts = append(mounts, Mount{
			Device:     unescapeMount(fields[0]),
			Mountpoint: unescapeMount(fields[1]),
			FSType:     fields[2],
		})
	}
	return mounts, sc.Err()
}

// unescapeMount decodes the octal escapes the kernel uses for spaces and
// tabs in mount paths.
func unescapeMount(s string) string {
	return strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`).Replace(s)
}

// MountsOf returns the mounts of disk and of any of its partitions.
func MountsOf(mounts []Mount, disk string) []Mount {
	var out []Mount
	for _, m := range mounts {
		if m.Device == disk || IsPartitionOf(m.Device, disk) {
			out = append(out, m)
		}
	}
	return out
}

// System inspects the host. Tests substitute a fake.
type System interface {
	Resolve(path string) (string, error)
	IsBlockDevice(path string) (bool, error)
	IsPartition(path string) bool
	Mounts() ([]Mount, error)
	Geteuid() int
}

// LocalSystem reads the running host.
type LocalSystem struct {
	MountsFile string
	SysBlock   string
}

// NewLocalSystem creates a System backed by /proc and /sys.
func NewLocalSystem() *LocalSystem {
	return &LocalSystem{MountsFile: "/proc/self/mounts", SysBlock: "/sys/class/block"}
}

// Resolve follows symlinks such as /dev/disk/by-id/* to the device node.
func (s *LocalSystem) Resolve(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// IsBlockDevice stats path and checks the file type bits.
func (s *LocalSystem) IsBlockDevice(path string) (bool, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false, err
	}
	return uint32(st.Mode)&unix.S_IFMT == unix.S_IFBLK, nil
}

// IsPartition asks sysfs, which knows partitions regardless of naming.
func (s *LocalSystem) IsPartition(path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	_, err = os.Stat(filepath.Join(s.SysBlock, filepath.Base(resolved), "partition"))
	return err == nil
}

// Mounts parses the mounts file.
func (s *LocalSystem) Mounts() ([]Mount, error) {
	f, err := os.Open(s.MountsFile)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseMounts(f)
}

// Geteuid returns the effective user id.
func (s *LocalSystem) Geteuid() int {
	return unix.Geteuid()
}
