package config

import (
	"fmt"
	"path/filepath"
	"strings"
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

	source := validateDir(&problems, "source_dir", cfg.SourceDir)
	destination := validateDir(&problems, "destination_dir", cfg.DestinationDir)
	if source != "" && source == destination {
		problems = append(problems, "source_dir and destination_dir must differ")
	}

	if len(cfg.AudioExtensions) == 0 {
		problems = append(problems, "audio_extensions must list at least one extension")
	}
	audio := map[string]struct{}{}
	for _, ext := range cfg.AudioExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			problems = append(problems, fmt.Sprintf("audio extension %q must start with a dot", ext))
		}
		audio[strings.ToLower(ext)] = struct{}{}
	}
	for _, ext := range cfg.SidecarExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			problems = append(problems, fmt.Sprintf("sidecar extension %q must start with a dot", ext))
		}
		if _, clash := audio[strings.ToLower(ext)]; clash {
			problems = append(problems, fmt.Sprintf("extension %q cannot be both audio and sidecar", ext))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateDir(problems *[]string, field string, raw string) string {
	if strings.TrimSpace(raw) == "" {
		*problems = append(*problems, field+" must be set")
		return ""
	}
	expanded, err := ExpandPath(raw)
	if err != nil {
		*problems = append(*problems, field+" must be a valid path")
		return ""
	}
	if !filepath.IsAbs(expanded) {
		*problems = append(*problems, field+" must resolve to an absolute path")
		return ""
	}
	return expanded
}
