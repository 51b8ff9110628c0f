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
	Version           *int      `yaml:"version"`
	SourceDir         *string   `yaml:"source_dir"`
	DestinationDir    *string   `yaml:"destination_dir"`
	AudioExtensions   *[]string `yaml:"audio_extensions"`
	SidecarExtensions *[]string `yaml:"sidecar_extensions"`
	PruneEmptyDirs    *bool     `yaml:"prune_empty_dirs"`
}

// Load merges built-in defaults, the user config, the project config (or an
// explicit file instead of both) and MUSICMAID_* environment overrides, in
// that order.
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
	if fc.SourceDir != nil {
		cfg.SourceDir = strings.TrimSpace(*fc.SourceDir)
	}
	if fc.DestinationDir != nil {
		cfg.DestinationDir = strings.TrimSpace(*fc.DestinationDir)
	}
	if fc.AudioExtensions != nil {
		cfg.AudioExtensions = append([]string{}, (*fc.AudioExtensions)...)
	}
	if fc.SidecarExtensions != nil {
		cfg.SidecarExtensions = append([]string{}, (*fc.SidecarExtensions)...)
	}
	if fc.PruneEmptyDirs != nil {
		cfg.PruneEmptyDirs = *fc.PruneEmptyDirs
	}
	return nil
}

func applyEnvOverrides(cfg *Config, env map[string]string) error {
	if value := strings.TrimSpace(env["MUSICMAID_SOURCE_DIR"]); value != "" {
		cfg.SourceDir = value
	}
	if value := strings.TrimSpace(env["MUSICMAID_DESTINATION_DIR"]); value != "" {
		cfg.DestinationDir = value
	}
	if value := strings.TrimSpace(env["MUSICMAID_PRUNE_EMPTY_DIRS"]); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid MUSICMAID_PRUNE_EMPTY_DIRS value %q: %w", value, err)
		}
		cfg.PruneEmptyDirs = parsed
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.AudioExtensions = normalizeExtensions(cfg.AudioExtensions, true)
	cfg.SidecarExtensions = normalizeExtensions(cfg.SidecarExtensions, false)
}

// normalizeExtensions trims entries and drops blanks and repeats. Audio
// extensions are matched case-insensitively and are stored lower-case.
func normalizeExtensions(in []string, lower bool) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, ext := range in {
		ext = strings.TrimSpace(ext)
		if lower {
			ext = strings.ToLower(ext)
		}
		if ext == "" {
			continue
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
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
