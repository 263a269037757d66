package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/homecfg/refcheck/pkg/logger"
	"github.com/homecfg/refcheck/pkg/validator"
)

var validateLog = logger.New("cli:validate_command")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-dir]...",
		Short: "Validate references in one or more config directories",
		Long: `Validate every YAML document in the given config directories against
their storage registries. Directories are validated concurrently.

With no arguments the directory "config" is validated.

Examples:
  refcheck validate                      # Validate ./config
  refcheck validate /srv/ha/config       # Validate one directory
  refcheck validate prod/ staging/       # Validate several directories
  refcheck validate --json               # Machine-readable results`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, _ := cmd.Flags().GetString("settings")
			jsonOutput, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")

			settings, err := validator.DiscoverSettings(settingsPath)
			if err != nil {
				return err
			}

			dirs := args
			if len(dirs) == 0 {
				dirs = []string{"config"}
			}
			validateLog.Printf("validating %d config dirs", len(dirs))

			results := runValidation(dirs, settings)

			if jsonOutput {
				return printJSONResults(cmd.OutOrStdout(), results)
			}
			failed := 0
			for _, res := range results {
				printResult(cmd.OutOrStdout(), res, verbose)
				if !res.Report.Valid() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d config dirs failed validation", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output results in JSON format")
	return cmd
}

// Result pairs a config dir with its validation report.
type Result struct {
	ConfigDir string
	Report    *validator.Report
}

// runValidation validates each dir in its own session. Sessions share
// nothing, so they run concurrently; result order follows the argument
// order.
func runValidation(dirs []string, settings validator.Settings) []Result {
	results := make([]Result, len(dirs))
	p := pool.New().WithMaxGoroutines(4)
	for i, dir := range dirs {
		p.Go(func() {
			results[i] = Result{
				ConfigDir: dir,
				Report:    validator.NewSession(dir, settings).Run(),
			}
		})
	}
	p.Wait()
	return results
}

type jsonFinding struct {
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
}

type jsonResult struct {
	ConfigDir string        `json:"config_dir"`
	Valid     bool          `json:"valid"`
	Errors    []jsonFinding `json:"errors"`
	Warnings  []jsonFinding `json:"warnings"`
}

func printJSONResults(w io.Writer, results []Result) error {
	out := make([]jsonResult, 0, len(results))
	invalid := 0
	for _, res := range results {
		jr := jsonResult{
			ConfigDir: res.ConfigDir,
			Valid:     res.Report.Valid(),
			Errors:    []jsonFinding{},
			Warnings:  []jsonFinding{},
		}
		for _, f := range res.Report.Errors() {
			jr.Errors = append(jr.Errors, jsonFinding{File: f.File, Message: f.Message})
		}
		for _, f := range res.Report.Warnings() {
			jr.Warnings = append(jr.Warnings, jsonFinding{File: f.File, Message: f.Message})
		}
		if !jr.Valid {
			invalid++
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d config dirs failed validation", invalid, len(results))
	}
	return nil
}
