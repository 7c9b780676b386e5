package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jaa/id3fix/internal/fileops"
	"github.com/jaa/id3fix/internal/resolve"
)

const DefaultPrefix = "id3conf-"

// File holds the proposed corrections for one audio file, grouped by tag key.
type File struct {
	Path string                          `json:"path"`
	Tags map[string][]resolve.Correction `json:"tags"`
}

// Keys returns the tag keys of f in a stable order.
func (f File) Keys() []string {
	keys := make([]string, 0, len(f.Tags))
	for key := range f.Tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (f File) CorrectionCount() int {
	total := 0
	for _, corrections := range f.Tags {
		total += len(corrections)
	}
	return total
}

type Document []File

// FormatError is returned when a report cannot be used as apply input.
type FormatError struct {
	Path     string
	Problems []string
	Err      error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid report %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid report %s: %s", e.Path, strings.Join(e.Problems, "; "))
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Marshal renders v the way reports are stored: four-space indent and
// non-ASCII text kept literal.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Write(path string, doc Document) error {
	if doc == nil {
		doc = Document{}
	}
	payload, err := Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := fileops.WriteFileAtomic(path, payload, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

func Load(path string) (Document, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("report file does not exist: %s", path)
		}
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	return Parse(path, payload)
}

func Parse(path string, payload []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	problems, err := preferredProblems(payload)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	if err := Validate(path, doc); err != nil {
		var formatErr *FormatError
		if errors.As(err, &formatErr) {
			formatErr.Problems = append(formatErr.Problems, problems...)
		}
		return nil, err
	}
	if len(problems) > 0 {
		return nil, &FormatError{Path: path, Problems: problems}
	}
	return doc, nil
}

// preferredProblems reports corrections whose preferred field is absent,
// null, or not a string. Decoding into resolve.Correction alone would leave
// those as an empty preferred value that apply would then write.
func preferredProblems(payload []byte) ([]string, error) {
	var raw []struct {
		Path string                                  `json:"path"`
		Tags map[string][]map[string]json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	problems := []string{}
	for _, file := range raw {
		keys := make([]string, 0, len(file.Tags))
		for key := range file.Tags {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for i, fields := range file.Tags[key] {
				preferred, ok := fields["preferred"]
				if !ok || bytes.Equal(bytes.TrimSpace(preferred), []byte("null")) {
					problems = append(problems, fmt.Sprintf("%s tag %q correction %d has no preferred value", file.Path, key, i))
					continue
				}
				var text string
				if err := json.Unmarshal(preferred, &text); err != nil {
					problems = append(problems, fmt.Sprintf("%s tag %q correction %d has a non-string preferred value", file.Path, key, i))
				}
			}
		}
	}
	return problems, nil
}

func Validate(path string, doc Document) error {
	problems := []string{}
	for i, file := range doc {
		if strings.TrimSpace(file.Path) == "" {
			problems = append(problems, fmt.Sprintf("entry %d has no path", i))
			continue
		}
		if len(file.Tags) == 0 {
			problems = append(problems, fmt.Sprintf("%s has no tags", file.Path))
			continue
		}
		for _, key := range file.Keys() {
			if len(file.Tags[key]) == 0 {
				problems = append(problems, fmt.Sprintf("%s tag %q has no corrections", file.Path, key))
			}
		}
	}
	if len(problems) > 0 {
		return &FormatError{Path: path, Problems: problems}
	}
	return nil
}

// DefaultPath names a new report after the time the scan finished.
func DefaultPath(dir string, prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return filepath.Join(dir, prefix+now.Format("2006-01-02 15-04-05")+".json")
}
