package cli

import (
	"fmt"
	"os"

	"github.com/jaa/id3fix/internal/exitcode"
	"github.com/spf13/cobra"
)

func Execute(build BuildInfo, streams IOStreams) int {
	app := &AppContext{Build: build, IO: streams}
	root := newRootCommand(app)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(streams.ErrOut, "ERROR:", err)
		return mapExitCode(err)
	}
	return exitcode.Success
}

func newRootCommand(app *AppContext) *cobra.Command {
	showVersion := false
	run := runFlags{}
	applyPath := ""

	root := &cobra.Command{
		Use:   "id3fix [paths...]",
		Short: "Repair mis-encoded ID3 tags in MP3 files",
		Long: "id3fix scans MP3 files for tag text that was decoded with the wrong character set, " +
			"writes the proposed corrections to a JSON report, and applies a reviewed report back to the files.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion(app)
				return nil
			}
			if applyPath != "" {
				if len(args) > 0 {
					return withExitCode(exitcode.InvalidUsage, fmt.Errorf("--apply cannot be combined with scan paths"))
				}
				return runApply(cmd, app, applyPath, run)
			}
			return runScan(cmd, app, args, run)
		},
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	defaultConfigPath := os.Getenv("ID3FIX_CONFIG")
	root.PersistentFlags().StringVarP(&app.Opts.ConfigPath, "config", "c", defaultConfigPath, "Path to config file")
	root.PersistentFlags().BoolVar(&app.Opts.JSON, "json", false, "Emit newline-delimited JSON events")
	root.PersistentFlags().BoolVarP(&app.Opts.Quiet, "quiet", "q", false, "Reduce output to errors and summary")
	root.PersistentFlags().BoolVarP(&app.Opts.Verbose, "verbose", "v", false, "Increase diagnostic output")
	root.PersistentFlags().BoolVar(&app.Opts.NoColor, "no-color", false, "Disable color output")
	root.PersistentFlags().BoolVar(&app.Opts.NoInput, "no-input", false, "Disable interactive prompts")
	root.PersistentFlags().BoolVarP(&app.Opts.DryRun, "dry-run", "n", false, "Show the changes that would be written without saving any file")
	root.Flags().BoolVar(&showVersion, "version", false, "Print version info")
	root.Flags().StringVarP(&applyPath, "apply", "a", "", "Apply corrections from a report file instead of scanning")
	run.register(root)

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(exitcode.InvalidUsage, err)
	})

	root.AddCommand(newScanCommand(app))
	root.AddCommand(newApplyCommand(app))
	root.AddCommand(newInitCommand(app))
	root.AddCommand(newValidateCommand(app))
	root.AddCommand(newDoctorCommand(app))
	root.AddCommand(newVersionCommand(app))

	return root
}

// runFlags are the flags shared by the root command and the scan and apply
// subcommands.
type runFlags struct {
	Interactive bool
	Output      string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.Interactive, "interactive", "i", false, "Confirm each file before its tags are written")
	cmd.Flags().StringVarP(&f.Output, "output", "o", "", "Report file to write (default: <report_dir>/id3conf-<timestamp>.json)")
}

func printVersion(app *AppContext) {
	version := app.Build.Version
	if version == "" {
		version = "dev"
	}
	commit := app.Build.Commit
	if commit == "" {
		commit = "unknown"
	}
	date := app.Build.Date
	if date == "" {
		date = "unknown"
	}

	fmt.Fprintf(app.IO.Out, "id3fix version %s\ncommit: %s\nbuild_date: %s\n", version, commit, date)
}
