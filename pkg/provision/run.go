package provision

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
	"github.com/arthur-debert/omarchy-setup/pkg/logging"
	"github.com/arthur-debert/omarchy-setup/pkg/state"
)

// Options controls a run.
type Options struct {
	// Only restricts the run to these sections. Order is still the fixed
	// section order.
	Only []string

	// LockFile guards against concurrent runs. Empty disables locking.
	LockFile string
}

// SectionResult is the outcome of one section.
type SectionResult struct {
	Name     string
	Changes  []change.Change
	Err      error
	Duration time.Duration
}

// Result is the outcome of a run.
type Result struct {
	Report   change.Report
	Sections []SectionResult

	// BestEffort aggregates failures of best-effort sections.
	BestEffort error
}

// Plan returns the sections a run would execute, in order.
func Plan(d Deps, only []string) ([]string, error) {
	enabled := map[string]bool{}
	for _, name := range d.Config.Setup.Sections {
		if !sections.Has(name) {
			return nil, errors.Newf(errors.ErrConfigValid, "unknown setup section %q in setup.sections", name).
				WithDetail("known", SectionNames())
		}
		enabled[name] = true
	}

	wanted := map[string]bool{}
	for _, name := range only {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !sections.Has(name) {
			return nil, errors.Newf(errors.ErrInvalidInput, "unknown section %q (valid: %s)", name, strings.Join(SectionNames(), ", ")).
				WithDetail("known", SectionNames())
		}
		wanted[name] = true
	}

	var plan []string
	for _, name := range SectionNames() {
		if !enabled[name] {
			continue
		}
		if len(wanted) > 0 && !wanted[name] {
			continue
		}
		plan = append(plan, name)
	}
	return plan, nil
}

// Run executes the planned sections.
func Run(ctx context.Context, d Deps, opts Options) (*Result, error) {
	logger := logging.GetLogger("provision")

	plan, err := Plan(d, opts.Only)
	if err != nil {
		return nil, err
	}

	if opts.LockFile != "" {
		lock, err := state.Acquire(opts.LockFile)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn().Err(err).Str("lock", lock.Path()).Msg("Failed to release lock")
			}
		}()
	}

	result := &Result{}
	var bestEffort *multierror.Error

	for _, name := range plan {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(err, errors.ErrAborted, "setup interrupted")
		}

		section, err := NewSection(name, d)
		if err != nil {
			return result, err
		}

		logger.Info().Str("section", name).Bool("dryRun", d.DryRun).Msg("Running section")
		start := time.Now()
		changes, err := section.Apply(ctx)
		sr := SectionResult{Name: name, Changes: changes, Err: err, Duration: time.Since(start)}
		result.Sections = append(result.Sections, sr)
		result.Report.Add(changes...)

		if err == nil {
			logger.Debug().Str("section", name).Dur("took", sr.Duration).Int("changes", len(changes)).Msg("Section done")
			continue
		}
		if d.Config.Setup.IsBestEffort(name) {
			logger.Warn().Err(err).Str("section", name).Msg("Best-effort section failed")
			bestEffort = multierror.Append(bestEffort, errors.Wrapf(err, errors.GetErrorCode(err), "section %s", name))
			continue
		}
		result.BestEffort = bestEffort.ErrorOrNil()
		return result, errors.Wrapf(err, errors.GetErrorCode(err), "setup section %s failed", name).
			WithDetail("section", name)
	}

	result.BestEffort = bestEffort.ErrorOrNil()
	return result, nil
}
