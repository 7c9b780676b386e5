package config

import (
	"fmt"
	"strings"

	"github.com/jaa/id3fix/internal/charset"
	"github.com/jaa/id3fix/internal/report"
)

func DefaultTemplate() string {
	return fmt.Sprintf(`version: 1
defaults:
  # Candidate encodings, tried in order. The last one is the baseline that
  # counts as "already correct".
  encodings: [%s]
  extensions: [".mp3"]
  # Restrict scanning to these tag keys (empty means every supported key).
  keys: []
  report_dir: "."
  report_prefix: %q
  interactive: false
`, quoteList(charset.DefaultEncodings), report.DefaultPrefix)
}

func quoteList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, fmt.Sprintf("%q", value))
	}
	return strings.Join(quoted, ", ")
}
