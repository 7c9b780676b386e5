package config

import (
	"github.com/jaa/id3fix/internal/charset"
	"github.com/jaa/id3fix/internal/report"
	"github.com/jaa/id3fix/internal/walk"
)

type Config struct {
	Version  int      `yaml:"version"`
	Defaults Defaults `yaml:"defaults"`
}

type Defaults struct {
	Encodings    []string `yaml:"encodings"`
	Extensions   []string `yaml:"extensions"`
	Keys         []string `yaml:"keys,omitempty"`
	ReportDir    string   `yaml:"report_dir"`
	ReportPrefix string   `yaml:"report_prefix"`
	Interactive  bool     `yaml:"interactive"`
}

func DefaultConfig() Config {
	return Config{
		Version: 1,
		Defaults: Defaults{
			Encodings:    append([]string{}, charset.DefaultEncodings...),
			Extensions:   append([]string{}, walk.DefaultExtensions...),
			ReportDir:    ".",
			ReportPrefix: report.DefaultPrefix,
			Interactive:  false,
		},
	}
}
