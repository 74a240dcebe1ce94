// Package runner executes external commands (yay, pacman, parted, btrfs,
// snapper, systemctl, ...).
//
// Runner is the seam between provisioning logic and the operating system.
// ExecRunner shells out through os/exec. DryRunner records mutating commands
// instead of running them, while still passing read-only queries through so
// that dry runs can make the same decisions a real run would.
package runner
