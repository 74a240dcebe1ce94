// Package disk lays out a whole disk for an Omarchy install: a GPT label,
// an EFI system partition and a Btrfs root carrying subvolumes, mounted
// under a target directory with matching fstab entries.
//
// Planning is pure: Build turns a device and a config.Disk into the list of
// steps. Layout checks the preconditions and then runs the steps in order,
// stopping at the first failure.
package disk
