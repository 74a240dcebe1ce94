// Package aur drives pacman and the configured AUR helper.
package aur

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/arthur-debert/omarchy-setup/pkg/runner"
)

var namePattern = regexp.MustCompile(`^[a-z0-9@._+-]+$`)

// ValidateName checks a package name against the Arch naming rule.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrPackageInvalid, "package name must not be empty")
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, ".") {
		return errors.Newf(errors.ErrPackageInvalid, "package name %q must not start with '-' or '.'", name).
			WithDetail("package", name)
	}
	if !namePattern.MatchString(name) {
		return errors.Newf(errors.ErrPackageInvalid, "invalid package name %q", name).
			WithDetail("package", name)
	}
	return nil
}

// Client installs and queries packages.
type Client struct {
	runner runner.Runner
	helper string
	flags  []string
	logger zerolog.Logger
}

// New creates a Client using helper (yay) with the given install flags.
func New(r runner.Runner, helper string, flags []string) *Client {
	return &Client{
		runner: r,
		helper: helper,
		flags:  flags,
		logger: logging.GetLogger("aur"),
	}
}

// Helper returns the AUR helper binary name.
func (c *Client) Helper() string { return c.helper }

// IsInstalled asks pacman whether name is installed. pacman exits non-zero
// for unknown packages, which is reported as false.
func (c *Client) IsInstalled(ctx context.Context, name string) (bool, error) {
	_, err := c.runner.Run(ctx, runner.Query("pacman", "-Qq", name))
	if err == nil {
		return true, nil
	}
	if runner.ExitCode(err) > 0 {
		return false, nil
	}
	return false, err
}

// Missing returns the names pacman does not report as installed, in order.
func (c *Client) Missing(ctx context.Context, names []string) ([]string, error) {
	var missing []string
	for _, name := range names {
		ok, err := c.IsInstalled(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// Install runs the helper with -S and the configured flags.
func (c *Client) Install(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{"-S"}, c.flags...)
	args = append(args, names...)
	c.logger.Info().Strs("packages", names).Msg("Installing packages")
	_, err := c.runner.Run(ctx, runner.Command{Name: c.helper, Args: args, Interactive: true})
	return err
}

// Remove uninstalls packages along with their unused dependencies.
func (c *Client) Remove(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{"-Rns", "--noconfirm"}, names...)
	c.logger.Info().Strs("packages", names).Msg("Removing packages")
	_, err := c.runner.Run(ctx, runner.Command{Name: c.helper, Args: args, Interactive: true})
	return err
}

// Search passes term through to the helper's search, printing to the
// terminal.
func (c *Client) Search(ctx context.Context, term string) error {
	if strings.TrimSpace(term) == "" {
		return errors.New(errors.ErrInvalidInput, "search term must not be empty")
	}
	cmd := runner.Query(c.helper, "-Ss", term)
	cmd.Interactive = true
	_, err := c.runner.Run(ctx, cmd)
	return err
}
