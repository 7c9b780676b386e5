package cli

import (
	"github.com/jaa/id3fix/internal/exitcode"
	"github.com/spf13/cobra"
)

func newScanCommand(app *AppContext) *cobra.Command {
	run := runFlags{}
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files or directories and write a correction report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, app, args, run)
		},
	}
	run.register(cmd)
	return cmd
}

func newApplyCommand(app *AppContext) *cobra.Command {
	run := runFlags{}
	cmd := &cobra.Command{
		Use:   "apply REPORT",
		Short: "Write the preferred values of a correction report into the files",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return withExitCode(exitcode.InvalidUsage, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, app, args[0], run)
		},
	}
	cmd.Flags().BoolVarP(&run.Interactive, "interactive", "i", false, "Confirm each file before its tags are written")
	return cmd
}
