package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jaa/id3fix/internal/config"
	"golang.org/x/term"
)

func loadConfig(app *AppContext) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := config.Load(config.LoadOptions{
		ExplicitPath: strings.TrimSpace(app.Opts.ConfigPath),
		WorkingDir:   wd,
	})
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func isTTY(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

func useColor(app *AppContext) bool {
	if app.Opts.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := app.IO.ErrOut.(*os.File)
	return ok && isTTY(file)
}

func stdinIsTTY(app *AppContext) bool {
	file, ok := app.IO.In.(*os.File)
	return ok && isTTY(file)
}
