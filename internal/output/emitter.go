package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

type EventEmitter interface {
	Emit(event Event) error
}

type JSONEmitter struct {
	enc *json.Encoder
	mu  sync.Mutex
}

func NewJSONEmitter(w io.Writer) *JSONEmitter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONEmitter{enc: enc}
}

func (e *JSONEmitter) Emit(event Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(event)
}

// HumanEmitter writes correction blocks and progress to stdout and
// diagnostics to stderr.
type HumanEmitter struct {
	stdout  io.Writer
	stderr  io.Writer
	quiet   bool
	verbose bool

	errorLabel *color.Color
	warnLabel  *color.Color
	pathStyle  *color.Color
}

func NewHumanEmitter(stdout, stderr io.Writer, quiet, verbose, colored bool) *HumanEmitter {
	e := &HumanEmitter{
		stdout:     stdout,
		stderr:     stderr,
		quiet:      quiet,
		verbose:    verbose,
		errorLabel: color.New(color.FgRed, color.Bold),
		warnLabel:  color.New(color.FgYellow, color.Bold),
		pathStyle:  color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{e.errorLabel, e.warnLabel, e.pathStyle} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return e
}

func (e *HumanEmitter) Emit(event Event) error {
	line := event.Message
	if line == "" {
		line = string(event.Event)
	}

	switch event.Level {
	case LevelError:
		_, err := fmt.Fprintln(e.stderr, e.errorLabel.Sprint("ERROR:"), line)
		return err
	case LevelWarn:
		if e.quiet {
			return nil
		}
		_, err := fmt.Fprintln(e.stderr, e.warnLabel.Sprint("WARN:"), line)
		return err
	}

	switch event.Event {
	case EventRunFinished:
		_, err := fmt.Fprintln(e.stdout, line)
		return err
	case EventFileCorrections:
		if e.quiet {
			return nil
		}
		if event.Path != "" {
			if _, err := fmt.Fprintln(e.stdout, e.pathStyle.Sprint(event.Path)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(e.stdout, line)
		return err
	case EventFileSkipped, EventRunStarted, EventTagUpdated:
		if !e.verbose {
			return nil
		}
	}
	if e.quiet {
		return nil
	}
	_, err := fmt.Fprintln(e.stdout, line)
	return err
}

// Recorder keeps every emitted event in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Emit(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) Named(name EventName) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []Event{}
	for _, event := range r.Events {
		if event.Event == name {
			matched = append(matched, event)
		}
	}
	return matched
}
