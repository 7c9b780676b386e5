package cli

import (
	"bufio"
	"io"
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type GlobalOptions struct {
	ConfigPath string
	JSON       bool
	Quiet      bool
	Verbose    bool
	NoColor    bool
	NoInput    bool
	DryRun     bool
}

type AppContext struct {
	Build BuildInfo
	IO    IOStreams
	Opts  GlobalOptions

	in *bufio.Reader
}

// input returns the shared reader over IO.In so buffered answers are not
// lost between prompts.
func (app *AppContext) input() *bufio.Reader {
	if app.in == nil {
		app.in = bufio.NewReader(app.IO.In)
	}
	return app.in
}
