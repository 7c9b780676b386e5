package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jaa/id3fix/internal/output"
	"github.com/jaa/id3fix/internal/report"
	"github.com/jaa/id3fix/internal/resolve"
	"github.com/jaa/id3fix/internal/tagstore"
	"github.com/jaa/id3fix/internal/walk"
)

var ErrInterrupted = errors.New("run interrupted")

// Fixer drives scan and apply passes one file at a time. Each file's tag
// container is opened, updated in memory and saved at most once.
type Fixer struct {
	Opener  tagstore.Opener
	Engine  *resolve.Engine
	Walker  walk.Walker
	Emitter output.EventEmitter
	// Keys restricts scanning to these tag keys; empty means all keys.
	Keys []string
	Now  func() time.Time
}

func NewFixer(opener tagstore.Opener, engine *resolve.Engine, emitter output.EventEmitter) *Fixer {
	if opener == nil {
		opener = tagstore.ID3Opener{}
	}
	if engine == nil {
		engine = resolve.New(nil)
	}
	if emitter == nil {
		emitter = noOpEmitter{}
	}
	return &Fixer{
		Opener:  opener,
		Engine:  engine,
		Emitter: emitter,
		Now:     time.Now,
	}
}

type noOpEmitter struct{}

func (noOpEmitter) Emit(event output.Event) error {
	return nil
}

// ReadTags resolves every value of every tag key in c and returns the keys
// that need at least one correction. A nil map means the file is clean.
func (f *Fixer) ReadTags(c tagstore.Container) map[string][]resolve.Correction {
	var tags map[string][]resolve.Correction
	for _, key := range c.Keys() {
		if !f.wantsKey(key) {
			continue
		}
		corrections := f.Engine.ResolveValues(c.Values(key))
		if len(corrections) == 0 {
			continue
		}
		if tags == nil {
			tags = map[string][]resolve.Correction{}
		}
		tags[key] = corrections
	}
	return tags
}

func (f *Fixer) wantsKey(key string) bool {
	return len(f.Keys) == 0 || slices.Contains(f.Keys, key)
}

// Scan walks opts.Paths and returns the report document of every file that
// needs corrections. In interactive mode the document stays empty and each
// record is applied right after the operator confirms it.
func (f *Fixer) Scan(ctx context.Context, opts ScanOptions) (report.Document, Result, error) {
	f.defaults()
	result := Result{}
	doc := report.Document{}

	f.emit(output.Event{
		Level:   output.LevelInfo,
		Event:   output.EventRunStarted,
		Message: fmt.Sprintf("scanning %d path(s) with encodings %v", max(len(opts.Paths), 1), f.Engine.Encodings()),
		Details: map[string]any{
			"mode":        "scan",
			"interactive": opts.Interactive,
			"dry_run":     opts.DryRun,
		},
	})

	walker := f.Walker
	walker.Skipped = func(path string, err error) {
		result.Skipped++
		f.emit(output.Event{
			Level:   output.LevelWarn,
			Event:   output.EventFileSkipped,
			Path:    path,
			Message: err.Error(),
		})
	}

	err := walker.Walk(ctx, opts.Paths, func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.Scanned++
		return f.scanFile(ctx, path, opts, &doc, &result)
	})
	if err != nil {
		if isInterrupt(ctx, err) {
			result.Interrupted = true
			f.finish("scan", result)
			return doc, result, ErrInterrupted
		}
		return doc, result, err
	}

	f.finish("scan", result)
	return doc, result, nil
}

func (f *Fixer) scanFile(ctx context.Context, path string, opts ScanOptions, doc *report.Document, result *Result) error {
	container, err := f.Opener.Open(path)
	if err != nil {
		if errors.Is(err, tagstore.ErrNoTags) {
			result.Skipped++
			f.emit(output.Event{
				Level:   output.LevelInfo,
				Event:   output.EventFileSkipped,
				Path:    path,
				Message: "no tags",
			})
			return nil
		}
		result.Failed++
		f.emit(output.Event{
			Level:   output.LevelError,
			Event:   output.EventFileFailed,
			Path:    path,
			Message: err.Error(),
		})
		return nil
	}
	defer container.Close()

	tags := f.ReadTags(container)
	if tags == nil {
		return nil
	}
	file := report.File{Path: path, Tags: tags}
	result.Corrected++

	if !opts.Interactive {
		*doc = append(*doc, file)
		f.emitCorrections(file)
		return nil
	}

	return f.confirmAndUpdate(ctx, container, file, opts.DryRun, opts.Confirm, result)
}

// Apply writes the preferred values of every record in doc back into the
// files it names.
func (f *Fixer) Apply(ctx context.Context, doc report.Document, opts ApplyOptions) (Result, error) {
	f.defaults()
	result := Result{}

	f.emit(output.Event{
		Level:   output.LevelInfo,
		Event:   output.EventRunStarted,
		Message: fmt.Sprintf("applying corrections to %d file(s)", len(doc)),
		Details: map[string]any{
			"mode":        "apply",
			"interactive": opts.Interactive,
			"dry_run":     opts.DryRun,
		},
	})

	for _, file := range doc {
		if err := ctx.Err(); err != nil {
			result.Interrupted = true
			f.finish("apply", result)
			return result, ErrInterrupted
		}
		result.Scanned++

		var err error
		if opts.Interactive {
			err = f.confirmAndOpen(ctx, file, opts, &result)
		} else {
			err = f.openAndUpdate(file, opts.DryRun, &result)
		}
		if err != nil {
			if isInterrupt(ctx, err) {
				result.Interrupted = true
				f.finish("apply", result)
				return result, ErrInterrupted
			}
			return result, err
		}
	}

	f.finish("apply", result)
	return result, nil
}

func (f *Fixer) confirmAndOpen(ctx context.Context, file report.File, opts ApplyOptions, result *Result) error {
	ok, err := f.confirm(ctx, opts.Confirm, file)
	if err != nil {
		return err
	}
	if !ok {
		result.Declined++
		return nil
	}
	return f.openAndUpdate(file, opts.DryRun, result)
}

func (f *Fixer) openAndUpdate(file report.File, dryRun bool, result *Result) error {
	container, err := f.Opener.Open(file.Path)
	if err != nil {
		result.Failed++
		f.emit(output.Event{
			Level:   output.LevelError,
			Event:   output.EventFileFailed,
			Path:    file.Path,
			Message: err.Error(),
		})
		return nil
	}
	defer container.Close()

	f.update(container, file, dryRun, result)
	return nil
}

func (f *Fixer) confirmAndUpdate(ctx context.Context, container tagstore.Container, file report.File, dryRun bool, confirm ConfirmFunc, result *Result) error {
	ok, err := f.confirm(ctx, confirm, file)
	if err != nil {
		return err
	}
	if !ok {
		result.Declined++
		return nil
	}
	f.update(container, file, dryRun, result)
	return nil
}

func (f *Fixer) confirm(ctx context.Context, confirm ConfirmFunc, file report.File) (bool, error) {
	if confirm == nil {
		return true, nil
	}
	return confirm(ctx, file)
}

func (f *Fixer) update(container tagstore.Container, file report.File, dryRun bool, result *Result) {
	changed, err := f.ApplyFile(container, file, dryRun)
	if err != nil {
		result.Failed++
		f.emit(output.Event{
			Level:   output.LevelError,
			Event:   output.EventFileFailed,
			Path:    file.Path,
			Message: err.Error(),
		})
		return
	}
	if changed == 0 {
		return
	}
	result.Updated++
	message := fmt.Sprintf("updating file %s", filepath.Base(file.Path))
	if dryRun {
		message = fmt.Sprintf("would update file %s", filepath.Base(file.Path))
	}
	f.emit(output.Event{
		Level:   output.LevelInfo,
		Event:   output.EventFileUpdated,
		Path:    file.Path,
		Message: message,
		Details: map[string]any{
			"keys":    changed,
			"dry_run": dryRun,
		},
	})
}

// ApplyFile overwrites each tag key of file with the preferred values of its
// corrections, in order, and saves the container once. Keys the container
// cannot store are reported and skipped. It returns the number of keys set.
func (f *Fixer) ApplyFile(container tagstore.Container, file report.File, dryRun bool) (int, error) {
	f.defaults()
	changed := 0
	for _, key := range file.Keys() {
		values := preferredValues(file.Tags[key])
		previous := container.Values(key)
		if !dryRun {
			if err := container.SetValues(key, values); err != nil {
				f.emit(output.Event{
					Level:   output.LevelWarn,
					Event:   output.EventFileSkipped,
					Path:    file.Path,
					Message: fmt.Sprintf("skip key %q: %v", key, err),
				})
				continue
			}
		}
		changed++
		f.emit(output.Event{
			Level:   output.LevelInfo,
			Event:   output.EventTagUpdated,
			Path:    file.Path,
			Message: fmt.Sprintf("    updating key %s from %q to %q", key, previous, values),
			Details: map[string]any{
				"key":  key,
				"from": previous,
				"to":   values,
			},
		})
	}
	if changed == 0 || dryRun {
		return changed, nil
	}
	if err := container.Save(); err != nil {
		return 0, fmt.Errorf("save tags of %s: %w", file.Path, err)
	}
	return changed, nil
}

func preferredValues(corrections []resolve.Correction) []string {
	values := make([]string, 0, len(corrections))
	for _, correction := range corrections {
		values = append(values, correction.Preferred)
	}
	return values
}

func (f *Fixer) emitCorrections(file report.File) {
	payload, err := report.Marshal(file)
	message := string(payload)
	if err != nil {
		message = fmt.Sprintf("%d correction(s)", file.CorrectionCount())
	}
	f.emit(output.Event{
		Level:   output.LevelInfo,
		Event:   output.EventFileCorrections,
		Path:    file.Path,
		Message: strings.TrimRight(message, "\n"),
		Details: map[string]any{
			"tags": file.Tags,
		},
	})
}

func (f *Fixer) finish(mode string, result Result) {
	message := fmt.Sprintf("%s finished: scanned=%d corrected=%d updated=%d skipped=%d failed=%d",
		mode, result.Scanned, result.Corrected, result.Updated, result.Skipped, result.Failed)
	level := output.LevelInfo
	if result.Failed > 0 {
		level = output.LevelWarn
	}
	f.emit(output.Event{
		Level:   level,
		Event:   output.EventRunFinished,
		Message: message,
		Details: map[string]any{
			"mode":        mode,
			"scanned":     result.Scanned,
			"corrected":   result.Corrected,
			"updated":     result.Updated,
			"skipped":     result.Skipped,
			"failed":      result.Failed,
			"declined":    result.Declined,
			"interrupted": result.Interrupted,
		},
	})
}

func (f *Fixer) emit(event output.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = f.Now()
	}
	_ = f.Emitter.Emit(event)
}

func (f *Fixer) defaults() {
	if f.Now == nil {
		f.Now = time.Now
	}
	if f.Emitter == nil {
		f.Emitter = noOpEmitter{}
	}
	if f.Engine == nil {
		f.Engine = resolve.New(nil)
	}
	if f.Opener == nil {
		f.Opener = tagstore.ID3Opener{}
	}
}

func isInterrupt(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
