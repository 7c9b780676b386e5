package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jaa/id3fix/internal/config"
	"github.com/jaa/id3fix/internal/exitcode"
	"github.com/jaa/id3fix/internal/report"
	"github.com/spf13/cobra"
)

func newValidateCommand(app *AppContext) *cobra.Command {
	reportFile := ""

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the config and, optionally, a correction report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}

			if err := config.Validate(cfg); err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}

			files := -1
			if reportFile != "" {
				doc, err := report.Load(reportFile)
				if err != nil {
					return withExitCode(exitcode.InvalidReport, err)
				}
				files = len(doc)
			}

			if app.Opts.JSON {
				payload := map[string]any{"valid": true}
				if files >= 0 {
					payload["report_files"] = files
				}
				encoded, _ := json.Marshal(payload)
				fmt.Fprintln(app.IO.Out, string(encoded))
				return nil
			}
			fmt.Fprintln(app.IO.Out, "Config is valid.")
			if files >= 0 {
				fmt.Fprintf(app.IO.Out, "Report is valid (%d file(s)).\n", files)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportFile, "report", "", "Also check that a report file can be applied")
	return cmd
}
