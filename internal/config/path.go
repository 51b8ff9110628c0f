package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func UserConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); strings.TrimSpace(xdg) != "" {
		return filepath.Join(xdg, "musicmaid", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "musicmaid", "config.yaml"), nil
}

func ProjectConfigPath(cwd string) string {
	return filepath.Join(cwd, "musicmaid.yaml")
}

// ExpandPath expands environment variables and a leading ~ and cleans the
// result. Relative paths stay relative.
func ExpandPath(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	expanded := os.ExpandEnv(strings.TrimSpace(raw))
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~/"))
	}
	return filepath.Clean(expanded), nil
}

// ResolveDirs expands SourceDir and DestinationDir of cfg.
func ResolveDirs(cfg Config) (source string, destination string, err error) {
	source, err = ExpandPath(cfg.SourceDir)
	if err != nil {
		return "", "", fmt.Errorf("invalid source_dir: %w", err)
	}
	destination, err = ExpandPath(cfg.DestinationDir)
	if err != nil {
		return "", "", fmt.Errorf("invalid destination_dir: %w", err)
	}
	return source, destination, nil
}
