package config

import (
	"fmt"
	"strings"

	"github.com/jaa/id3fix/internal/charset"
	"github.com/jaa/id3fix/internal/tagstore"
)

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid config"
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(e.Problems, "; "))
}

func Validate(cfg Config) error {
	problems := []string{}

	if cfg.Version != 1 {
		problems = append(problems, "version must be 1")
	}

	if len(cfg.Defaults.Encodings) == 0 {
		problems = append(problems, "defaults.encodings must list at least one encoding")
	}
	seenEncodings := map[string]struct{}{}
	for _, name := range cfg.Defaults.Encodings {
		codec, err := charset.Lookup(name)
		if err != nil {
			problems = append(problems, fmt.Sprintf("defaults.encodings has unsupported encoding %q", name))
			continue
		}
		if _, exists := seenEncodings[codec.Name()]; exists {
			problems = append(problems, fmt.Sprintf("defaults.encodings lists %q more than once", codec.Name()))
		}
		seenEncodings[codec.Name()] = struct{}{}
	}

	if len(cfg.Defaults.Extensions) == 0 {
		problems = append(problems, "defaults.extensions must list at least one extension")
	}
	for _, ext := range cfg.Defaults.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			problems = append(problems, fmt.Sprintf("defaults.extensions has invalid extension %q", ext))
		}
	}

	for _, key := range cfg.Defaults.Keys {
		if !tagstore.IsSupportedKey(key) {
			problems = append(problems, fmt.Sprintf("defaults.keys has unsupported tag key %q", key))
		}
	}

	if strings.TrimSpace(cfg.Defaults.ReportDir) == "" {
		problems = append(problems, "defaults.report_dir must be set")
	} else if _, err := ExpandPath(cfg.Defaults.ReportDir); err != nil {
		problems = append(problems, "defaults.report_dir must be a valid path")
	}
	if strings.ContainsAny(cfg.Defaults.ReportPrefix, `/\`) {
		problems = append(problems, "defaults.report_prefix must not contain path separators")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
