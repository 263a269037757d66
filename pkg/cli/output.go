package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/homecfg/refcheck/pkg/console"
	"github.com/homecfg/refcheck/pkg/registry"
)

// printResult renders one validation result for humans.
func printResult(w io.Writer, res Result, verbose bool) {
	report := res.Report
	errs := report.Errors()
	warns := report.Warnings()

	fmt.Fprintln(w, console.FormatHeader(res.ConfigDir))

	for _, f := range errs {
		fmt.Fprintln(w, console.FormatErrorMessage(f.String()))
	}
	for _, f := range warns {
		fmt.Fprintln(w, console.FormatWarningMessage(f.String()))
	}

	switch {
	case report.Valid() && len(warns) == 0:
		fmt.Fprintln(w, console.FormatSuccessMessage("All references are valid"))
	case report.Valid():
		fmt.Fprintln(w, console.FormatSuccessMessage(
			fmt.Sprintf("Valid with %d warnings", len(warns))))
	default:
		fmt.Fprintln(w, console.FormatErrorMessage(
			fmt.Sprintf("%d errors, %d warnings", len(errs), len(warns))))
	}

	if verbose {
		fmt.Fprintln(w, console.FormatVerboseMessage(
			fmt.Sprintf("%d findings total", len(report.Findings()))))
	}
}

// printEntitySummary renders the per-domain entity table.
func printEntitySummary(w io.Writer, configDir string, summaries []registry.DomainSummary) {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Domain,
			fmt.Sprintf("%d", s.Enabled),
			fmt.Sprintf("%d", s.Disabled),
			joinExamples(s.Examples),
		})
	}
	fmt.Fprint(w, console.RenderTable(console.TableConfig{
		Title:   fmt.Sprintf("Entities in %s", configDir),
		Headers: []string{"Domain", "Enabled", "Disabled", "Examples"},
		Rows:    rows,
	}))
}

func joinExamples(examples []string) string {
	return strings.Join(examples, ", ")
}
