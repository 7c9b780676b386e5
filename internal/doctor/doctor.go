package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jaa/id3fix/internal/charset"
	"github.com/jaa/id3fix/internal/config"
)

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

type Check struct {
	Severity Severity `json:"severity"`
	Name     string   `json:"name"`
	Message  string   `json:"message"`
}

type Report struct {
	Checks []Check `json:"checks"`
}

func (r Report) HasErrors() bool {
	return r.ErrorCount() > 0
}

func (r Report) ErrorCount() int {
	count := 0
	for _, check := range r.Checks {
		if check.Severity == SeverityError {
			count++
		}
	}
	return count
}

func (r *Report) add(severity Severity, name string, format string, args ...any) {
	r.Checks = append(r.Checks, Check{
		Severity: severity,
		Name:     name,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Checker verifies that a scan or apply run can start: the config is valid,
// every candidate encoding is available, the report directory is writable
// and the input paths exist.
type Checker struct {
	Stat          func(string) (os.FileInfo, error)
	CheckWritable func(string) error
}

func NewChecker() *Checker {
	return &Checker{
		Stat:          os.Stat,
		CheckWritable: checkDirWritable,
	}
}

func (c *Checker) Check(ctx context.Context, cfg config.Config, paths []string) Report {
	report := Report{Checks: []Check{}}

	if err := config.Validate(cfg); err != nil {
		var validationErr *config.ValidationError
		if errors.As(err, &validationErr) {
			for _, problem := range validationErr.Problems {
				report.add(SeverityError, "config", "%s", problem)
			}
		} else {
			report.add(SeverityError, "config", "%v", err)
		}
	} else {
		report.add(SeverityInfo, "config", "config is valid")
	}

	c.checkEncodings(&report, cfg.Defaults.Encodings)
	c.checkReportDir(&report, cfg.Defaults.ReportDir)

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, path := range paths {
		if ctx.Err() != nil {
			report.add(SeverityWarn, "input", "checks interrupted")
			break
		}
		c.checkInput(&report, path, cfg.Defaults.Extensions)
	}

	return report
}

func (c *Checker) checkEncodings(report *Report, names []string) {
	resolved := make([]string, 0, len(names))
	for _, name := range names {
		codec, err := charset.Lookup(name)
		if err != nil {
			report.add(SeverityError, "encoding", "%v", err)
			continue
		}
		resolved = append(resolved, codec.Name())
	}
	if len(resolved) == 0 {
		return
	}
	report.add(SeverityInfo, "encoding", "candidate order: %s (baseline %s)", strings.Join(resolved, " -> "), resolved[len(resolved)-1])
	if resolved[len(resolved)-1] != "utf-8" {
		report.add(SeverityWarn, "encoding", "last candidate is %s; text already valid in it is treated as correct", resolved[len(resolved)-1])
	}
}

func (c *Checker) checkReportDir(report *Report, raw string) {
	dir, err := config.ExpandPath(raw)
	if err != nil || dir == "" {
		report.add(SeverityError, "report_dir", "report directory %q cannot be resolved", raw)
		return
	}
	if err := c.CheckWritable(dir); err != nil {
		report.add(SeverityError, "report_dir", "%s is not writable: %v", dir, err)
		return
	}
	report.add(SeverityInfo, "report_dir", "%s is writable", dir)
}

func (c *Checker) checkInput(report *Report, path string, extensions []string) {
	info, err := c.Stat(path)
	if err != nil {
		report.add(SeverityError, "input", "%s cannot be read: %v", path, err)
		return
	}
	if info.IsDir() {
		report.add(SeverityInfo, "input", "%s is a directory (scanned recursively)", path)
		return
	}
	if !hasExtension(path, extensions) {
		report.add(SeverityWarn, "input", "%s does not have a scanned extension (%s) but will be read as named", path, strings.Join(extensions, ", "))
		return
	}
	report.add(SeverityInfo, "input", "%s is a file", path)
}

func hasExtension(path string, extensions []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

func checkDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}

	file, err := os.CreateTemp(path, ".id3fix-write-check-*")
	if err != nil {
		return err
	}
	name := file.Name()
	_ = file.Close()
	_ = os.Remove(name)
	return nil
}
