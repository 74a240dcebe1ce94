package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gosuri/uitable"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/omarchy-setup/pkg/change"
	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

// summaryOrder is the order actions appear in a summary line.
var summaryOrder = []change.Action{
	change.Created, change.Updated, change.Removed, change.Executed,
	change.Failed, change.Skipped, change.Unchanged,
}

// Printer writes command output in one format.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	format Format
	styles *Styles
}

// NewPrinter creates a Printer. FormatAuto is resolved against out.
func NewPrinter(out, errOut io.Writer, format Format) *Printer {
	if format == FormatAuto {
		format = FormatText
		if f, ok := out.(*os.File); ok {
			format = DetectFormat(f)
		}
	}
	renderer := lipgloss.NewRenderer(out)
	if format != FormatTerminal {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return &Printer{out: out, errOut: errOut, format: format, styles: DefaultStyles(renderer)}
}

// Format returns the resolved output format.
func (p *Printer) Format() Format { return p.format }

// Styles returns the printer's styles.
func (p *Printer) Styles() *Styles { return p.styles }

// Message prints text in the named style. In JSON mode messages go to the
// error stream so stdout stays parseable.
func (p *Printer) Message(style, text string) {
	if p.format == FormatJSON {
		fmt.Fprintln(p.errOut, text)
		return
	}
	fmt.Fprintln(p.out, p.styles.Render(style, text))
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Lines prints each line unstyled.
func (p *Printer) Lines(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(p.out, l)
	}
}

// Error prints err on the error stream.
func (p *Printer) Error(err error) {
	if p.format == FormatJSON {
		_ = json.NewEncoder(p.errOut).Encode(map[string]string{
			"error": err.Error(),
			"code":  string(errors.GetErrorCode(err)),
		})
		return
	}
	fmt.Fprintf(p.errOut, "%s %s\n", p.styles.Render("Error", "Error:"), err.Error())
}

type jsonChange struct {
	Component string `json:"component"`
	Target    string `json:"target"`
	Action    string `json:"action"`
	Detail    string `json:"detail,omitempty"`
}

type jsonReport struct {
	DryRun  bool           `json:"dryRun"`
	Changes []jsonChange   `json:"changes"`
	Summary map[string]int `json:"summary"`
}

// Report prints every change grouped by component, then a summary line.
func (p *Printer) Report(report *change.Report, dryRun bool) error {
	if p.format == FormatJSON {
		doc := jsonReport{DryRun: dryRun, Changes: []jsonChange{}, Summary: map[string]int{}}
		for _, c := range report.Changes {
			doc.Changes = append(doc.Changes, jsonChange{Component: c.Component, Target: c.Target, Action: string(c.Action), Detail: c.Detail})
		}
		for _, a := range summaryOrder {
			if n := report.Count(a); n > 0 {
				doc.Summary[string(a)] = n
			}
		}
		return p.JSON(doc)
	}

	if dryRun {
		fmt.Fprintln(p.out, p.styles.Render("DryRunBanner", "Dry run: nothing was changed."))
	}
	for _, component := range components(report) {
		fmt.Fprintln(p.out, p.styles.Render("Component", component))
		for _, c := range report.ForComponent(component) {
			line := fmt.Sprintf("  %s %s", p.styles.Render(actionStyle(c.Action), fmt.Sprintf("%-9s", c.Action)), c.Target)
			if c.Detail != "" {
				line += " " + p.styles.Render("Muted", "("+c.Detail+")")
			}
			fmt.Fprintln(p.out, line)
		}
	}
	fmt.Fprintln(p.out, p.styles.Render("Header", Summary(report)))
	return nil
}

// Table prints rows under headers, aligned.
func (p *Printer) Table(headers []string, rows [][]string) error {
	if p.format == FormatJSON {
		out := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			m := make(map[string]string, len(headers))
			for i, h := range headers {
				if i < len(row) {
					m[strings.ToLower(h)] = row[i]
				}
			}
			out = append(out, m)
		}
		return p.JSON(out)
	}

	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	table.Separator = "  "
	table.AddRow(toCells(headers)...)
	for _, row := range rows {
		table.AddRow(toCells(row)...)
	}
	_, err := fmt.Fprintln(p.out, table.String())
	return err
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func actionStyle(a change.Action) string {
	if a == "" {
		return "Muted"
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

func components(report *change.Report) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range report.Changes {
		if !seen[c.Component] {
			seen[c.Component] = true
			out = append(out, c.Component)
		}
	}
	return out
}

// Summary counts the report's changes per action, e.g.
// "2 created, 1 updated, 4 unchanged".
func Summary(report *change.Report) string {
	var parts []string
	for _, a := range summaryOrder {
		if n := report.Count(a); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, a))
		}
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}
