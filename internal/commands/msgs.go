// Package commands holds the user-facing strings of the omarchy-setup
// command line.
package commands

// Command descriptions
const (
	MsgRootShort = "Provision an Omarchy (Arch Linux) desktop"
	MsgRootLong  = `omarchy-setup installs packages, writes dotfiles, patches desktop
configuration, lays out disks, wires Snapper snapshots and switches GPU
modes. Every step checks the current state first and only changes what
differs, so commands can be re-run safely.`

	MsgVersionShort = "Print version information"
	MsgVersionLong  = "Print detailed version information including commit hash and build date"

	MsgPkgShort       = "Manage packages and the packages.list file"
	MsgPkgAddShort    = "Install packages and record them in packages.list"
	MsgPkgRemoveShort = "Remove packages from packages.list"
	MsgPkgListShort   = "Print packages.list"
	MsgPkgSearchShort = "Search the repositories and the AUR"
	MsgPkgSyncShort   = "Regenerate the setup-omarchy script from packages.list"

	MsgShellShort       = "Configure the shell rc file"
	MsgShellSetupShort  = "Write the managed block into the shell rc file"
	MsgGitShort         = "Configure git"
	MsgGitSetupShort    = "Set the configured options in ~/.gitconfig"
	MsgEditorShort      = "Configure VS Code"
	MsgEditorSetupShort = "Install extensions and merge settings.json"
	MsgDotfilesShort    = "Manage the dotfiles repository"
	MsgDotfilesSyncShort = "Clone or pull the dotfiles repository and link its files"

	MsgDesktopShort     = "Patch desktop configuration files"
	MsgDesktopAllShort  = "Patch every desktop configuration file"
	MsgDesktopTargetFmt = "Patch the %s configuration"

	MsgDiskShort       = "Partition a disk for Omarchy"
	MsgDiskPlanShort   = "Show the partition and Btrfs layout for a device"
	MsgDiskLayoutShort = "Partition, format and mount a device (destroys its data)"
	MsgDiskLong        = `Lays out a whole disk with a GPT label, an EFI system partition and a
Btrfs root carrying the configured subvolumes, mounted below the mount
target, and writes the matching fstab entries.`

	MsgSnapperShort       = "Configure Snapper snapshots"
	MsgSnapperSetupShort  = "Create configs, apply limits, install hooks and enable timers"
	MsgSnapperStatusShort = "Show snapper configs, limits, hooks and timers"

	MsgGPUShort       = "Switch GPU mode"
	MsgGPUStatusShort = "Show the current GPU mode"
	MsgGPULong        = `Switches between the configured GPU modes (integrated, hybrid, nvidia by
default), writes the matching Hyprland env drop-in and records the mode.`

	MsgSetupShort = "Run every provisioning section in order"
	MsgSetupLong  = `Runs the configured sections in their fixed order: packages, shell, git,
editor, dotfiles, desktop, snapper, gpu. The first failing section stops
the run unless it is listed in setup.best_effort. Disk layout is never
part of setup.`

	MsgDoctorShort = "Check for the external tools omarchy-setup uses"

	MsgConfigShort     = "Inspect and create the configuration file"
	MsgConfigShowShort = "Print the effective configuration as TOML"
	MsgConfigInitShort = "Write the default configuration file"

	MsgTopicsShort     = "Read help topics"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"
)

// Flag descriptions
const (
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun    = "Print every change and command without executing anything"
	MsgFlagConfig    = "Configuration file (default $XDG_CONFIG_HOME/omarchy-setup/config.toml)"
	MsgFlagRoot      = "Prefix for system paths such as /etc"
	MsgFlagFormat    = "Output format: auto, term, text or json"
	MsgFlagSaveOnly  = "Only record the packages, do not install them"
	MsgFlagUninstall = "Also uninstall the removed packages"
	MsgFlagRun       = "Install every listed package that is missing"
	MsgFlagForce     = "Do not ask for confirmation"
	MsgFlagOnly      = "Run only these sections (comma separated)"
	MsgFlagOverwrite = "Overwrite an existing configuration file"
	MsgFlagManDir    = "Directory to write man pages to"
)

// Output
const (
	MsgVersionFormat = "omarchy-setup version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	MsgListEmpty         = "packages.list is empty"
	MsgConfigExists      = "%s already exists (use --force to overwrite)"
	MsgConfigSource      = "# Effective configuration (from %s)"
	MsgDoctorMissing     = "%d required tool(s) missing"
	MsgDoctorOK          = "All tools found"
	MsgPlanHeader        = "Layout for %s:"
	MsgPlanPhase         = "%d. %s"
	MsgPlanWarning       = "Running 'disk layout %s' erases everything on the device."
	MsgGPURecorded       = "Recorded mode: %s"
	MsgGPUReported       = "Reported mode: %s"
	MsgGPUNone           = "none"
	MsgManWritten        = "Wrote man pages to %s"
	MsgSetupBestEffort   = "Some best-effort sections failed: %v"
	MsgSnapperConfigs    = "Configs"
	MsgSnapperHooks      = "Pacman hooks"
	MsgSnapperTimers     = "Timers"
	MsgSnapperLimitsFmt  = "Limits of %s"
	MsgTopicNotFound     = "unknown topic %q (see 'omarchy-setup topics')"
	MsgYes               = "yes"
	MsgNo                = "no"
)
