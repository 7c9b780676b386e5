package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"

	"github.com/jaa/id3fix/internal/charset"
	"github.com/jaa/id3fix/internal/config"
	"github.com/jaa/id3fix/internal/engine"
	"github.com/jaa/id3fix/internal/exitcode"
	"github.com/jaa/id3fix/internal/output"
	"github.com/jaa/id3fix/internal/report"
	"github.com/jaa/id3fix/internal/resolve"
	"github.com/jaa/id3fix/internal/tagstore"
	"github.com/jaa/id3fix/internal/walk"
	"github.com/spf13/cobra"
)

const abortMessage = "Aborting process"

func runScan(cmd *cobra.Command, app *AppContext, paths []string, run runFlags) error {
	cfg, err := loadValidConfig(app)
	if err != nil {
		return err
	}
	interactive, err := resolveInteractive(cmd, app, cfg, run)
	if err != nil {
		return err
	}

	fixer, emitter, err := newFixer(app, cfg)
	if err != nil {
		return withExitCode(exitcode.InvalidConfig, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), interruptSignals()...)
	defer stop()

	doc, _, err := fixer.Scan(ctx, engine.ScanOptions{
		Paths:       paths,
		Interactive: interactive,
		DryRun:      app.Opts.DryRun,
		Confirm:     confirmFunc(app),
	})
	if err != nil {
		if errors.Is(err, engine.ErrInterrupted) {
			fmt.Fprintln(app.IO.Out, abortMessage)
			return nil
		}
		return withExitCode(exitcode.RuntimeFailure, err)
	}
	if interactive {
		return nil
	}

	path, err := reportPath(cfg, run.Output, fixer)
	if err != nil {
		return withExitCode(exitcode.InvalidConfig, err)
	}
	if err := report.Write(path, doc); err != nil {
		return withExitCode(exitcode.RuntimeFailure, err)
	}
	_ = emitter.Emit(output.Event{
		Timestamp: fixer.Now(),
		Level:     output.LevelInfo,
		Event:     output.EventReportWritten,
		Path:      path,
		Message:   fmt.Sprintf("report written to %s (%d file(s))", path, len(doc)),
		Details: map[string]any{
			"files": len(doc),
		},
	})
	return nil
}

func runApply(cmd *cobra.Command, app *AppContext, reportFile string, run runFlags) error {
	cfg, err := loadValidConfig(app)
	if err != nil {
		return err
	}
	interactive, err := resolveInteractive(cmd, app, cfg, run)
	if err != nil {
		return err
	}

	doc, err := report.Load(reportFile)
	if err != nil {
		return withExitCode(exitcode.InvalidReport, err)
	}

	fixer, _, err := newFixer(app, cfg)
	if err != nil {
		return withExitCode(exitcode.InvalidConfig, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), interruptSignals()...)
	defer stop()

	_, err = fixer.Apply(ctx, doc, engine.ApplyOptions{
		Interactive: interactive,
		DryRun:      app.Opts.DryRun,
		Confirm:     confirmFunc(app),
	})
	if err != nil {
		if errors.Is(err, engine.ErrInterrupted) {
			fmt.Fprintln(app.IO.Out, abortMessage)
			return nil
		}
		return withExitCode(exitcode.RuntimeFailure, err)
	}
	if !app.Opts.JSON {
		fmt.Fprintln(app.IO.Out, "Job done")
	}
	return nil
}

func loadValidConfig(app *AppContext) (config.Config, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return config.Config{}, withExitCode(exitcode.InvalidConfig, err)
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, withExitCode(exitcode.InvalidConfig, err)
	}
	return cfg, nil
}

func resolveInteractive(cmd *cobra.Command, app *AppContext, cfg config.Config, run runFlags) (bool, error) {
	interactive := cfg.Defaults.Interactive
	if flag := cmd.Flags().Lookup("interactive"); flag != nil && flag.Changed {
		interactive = run.Interactive
	}
	if !interactive {
		return false, nil
	}
	if app.Opts.NoInput {
		return false, withExitCode(exitcode.InvalidUsage, fmt.Errorf("--interactive cannot be combined with --no-input"))
	}
	if app.Opts.JSON {
		return false, withExitCode(exitcode.InvalidUsage, fmt.Errorf("--interactive cannot be combined with --json"))
	}
	return true, nil
}

func newFixer(app *AppContext, cfg config.Config) (*engine.Fixer, output.EventEmitter, error) {
	decoder, err := charset.NewDecoder(cfg.Defaults.Encodings...)
	if err != nil {
		return nil, nil, err
	}
	emitter := newEmitter(app)
	fixer := engine.NewFixer(tagstore.ID3Opener{}, resolve.New(decoder), emitter)
	fixer.Walker = walk.Walker{Extensions: cfg.Defaults.Extensions}
	fixer.Keys = cfg.Defaults.Keys
	return fixer, emitter, nil
}

func newEmitter(app *AppContext) output.EventEmitter {
	if app.Opts.JSON {
		return output.NewJSONEmitter(app.IO.Out)
	}
	return output.NewHumanEmitter(app.IO.Out, app.IO.ErrOut, app.Opts.Quiet, app.Opts.Verbose, useColor(app))
}

func reportPath(cfg config.Config, explicit string, fixer *engine.Fixer) (string, error) {
	if path := strings.TrimSpace(explicit); path != "" {
		return config.ExpandPath(path)
	}
	dir, err := config.ExpandPath(cfg.Defaults.ReportDir)
	if err != nil {
		return "", fmt.Errorf("resolve report directory: %w", err)
	}
	return report.DefaultPath(dir, cfg.Defaults.ReportPrefix, fixer.Now()), nil
}

// confirmFunc shows one file's corrections and asks whether to write them.
func confirmFunc(app *AppContext) engine.ConfirmFunc {
	return func(ctx context.Context, file report.File) (bool, error) {
		payload, err := report.Marshal(file.Tags)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(app.IO.Out, file.Path)
		fmt.Fprint(app.IO.Out, string(payload))
		fmt.Fprint(app.IO.Out, "Proceed with this? (y/n) ")

		line, err := readLine(ctx, app.input())
		if err != nil {
			return false, err
		}
		answer := strings.TrimSpace(line)
		return strings.HasPrefix(answer, "y") || strings.HasPrefix(answer, "Y"), nil
	}
}
