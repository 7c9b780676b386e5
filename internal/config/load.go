package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type LoadOptions struct {
	ExplicitPath string
	WorkingDir   string
	Env          map[string]string
}

type fileConfig struct {
	Version  *int         `yaml:"version"`
	Defaults fileDefaults `yaml:"defaults"`
}

type fileDefaults struct {
	Encodings    *[]string `yaml:"encodings"`
	Extensions   *[]string `yaml:"extensions"`
	Keys         *[]string `yaml:"keys"`
	ReportDir    *string   `yaml:"report_dir"`
	ReportPrefix *string   `yaml:"report_prefix"`
	Interactive  *bool     `yaml:"interactive"`
}

func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	cwd := opts.WorkingDir
	if strings.TrimSpace(cwd) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("resolve working directory: %w", err)
		}
		cwd = wd
	}

	env := opts.Env
	if env == nil {
		env = osEnvMap()
	}

	if explicit := strings.TrimSpace(opts.ExplicitPath); explicit != "" {
		if err := mergeFile(&cfg, explicit, true); err != nil {
			return Config{}, err
		}
	} else {
		userPath, err := UserConfigPath()
		if err != nil {
			return Config{}, err
		}
		if err := mergeFile(&cfg, userPath, false); err != nil {
			return Config{}, err
		}

		if err := mergeFile(&cfg, ProjectConfigPath(cwd), false); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg, env); err != nil {
		return Config{}, err
	}

	normalize(&cfg)
	return cfg, nil
}

func mergeFile(cfg *Config, path string, required bool) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file does not exist: %s", path)
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Version != nil {
		cfg.Version = *fc.Version
	}
	if fc.Defaults.Encodings != nil {
		cfg.Defaults.Encodings = trimList(*fc.Defaults.Encodings)
	}
	if fc.Defaults.Extensions != nil {
		cfg.Defaults.Extensions = trimList(*fc.Defaults.Extensions)
	}
	if fc.Defaults.Keys != nil {
		cfg.Defaults.Keys = trimList(*fc.Defaults.Keys)
	}
	if fc.Defaults.ReportDir != nil {
		cfg.Defaults.ReportDir = strings.TrimSpace(*fc.Defaults.ReportDir)
	}
	if fc.Defaults.ReportPrefix != nil {
		cfg.Defaults.ReportPrefix = strings.TrimSpace(*fc.Defaults.ReportPrefix)
	}
	if fc.Defaults.Interactive != nil {
		cfg.Defaults.Interactive = *fc.Defaults.Interactive
	}
	return nil
}

func applyEnvOverrides(cfg *Config, env map[string]string) error {
	if value := strings.TrimSpace(env["ID3FIX_ENCODINGS"]); value != "" {
		cfg.Defaults.Encodings = splitList(value)
	}
	if value := strings.TrimSpace(env["ID3FIX_EXTENSIONS"]); value != "" {
		cfg.Defaults.Extensions = splitList(value)
	}
	if value := strings.TrimSpace(env["ID3FIX_REPORT_DIR"]); value != "" {
		cfg.Defaults.ReportDir = value
	}
	if value := strings.TrimSpace(env["ID3FIX_INTERACTIVE"]); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid ID3FIX_INTERACTIVE value %q: %w", value, err)
		}
		cfg.Defaults.Interactive = parsed
	}
	return nil
}

func normalize(cfg *Config) {
	for i, ext := range cfg.Defaults.Extensions {
		ext = strings.ToLower(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Defaults.Extensions[i] = ext
	}
	for i, key := range cfg.Defaults.Keys {
		cfg.Defaults.Keys[i] = strings.ToLower(key)
	}
}

func splitList(raw string) []string {
	return trimList(strings.Split(raw, ","))
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func osEnvMap() map[string]string {
	result := map[string]string{}
	for _, pair := range os.Environ() {
		pieces := strings.SplitN(pair, "=", 2)
		if len(pieces) == 2 {
			result[pieces[0]] = pieces[1]
		}
	}
	return result
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", dir, err)
	}
	return nil
}
