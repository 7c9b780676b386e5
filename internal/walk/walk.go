package walk

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var DefaultExtensions = []string{".mp3"}

// Walker enumerates audio files under a set of roots. A root naming a file is
// taken as-is; directories are walked recursively and filtered by extension.
type Walker struct {
	Extensions []string
	// Skipped is called for roots or entries that cannot be read.
	Skipped func(path string, err error)
}

func (w Walker) Walk(ctx context.Context, roots []string, visit func(path string) error) error {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	extensions := w.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	seen := map[string]struct{}{}
	emit := func(path string) error {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if _, ok := seen[key]; ok {
			return nil
		}
		seen[key] = struct{}{}
		return visit(path)
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := os.Stat(root)
		if err != nil {
			w.skip(root, err)
			continue
		}
		if !info.IsDir() {
			if err := emit(filepath.Clean(root)); err != nil {
				return err
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				w.skip(path, walkErr)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if !hasExtension(d.Name(), extensions) {
				return nil
			}
			return emit(path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w Walker) skip(path string, err error) {
	if w.Skipped != nil {
		w.Skipped(path, fmt.Errorf("read %s: %w", path, err))
	}
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range extensions {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}
