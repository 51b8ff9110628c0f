package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SidecarCleaner deletes files download tools leave next to the audio, such
// as spotDL's .spotdl sync files.
type SidecarCleaner struct {
	Extensions []string
	DryRun     bool
}

// Matches compares the name suffix exactly; sidecar names are written by
// tools, not people.
func (c *SidecarCleaner) Matches(path string) bool {
	name := filepath.Base(path)
	for _, ext := range c.Extensions {
		if ext != "" && strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Handle deletes path when it is a sidecar. handled is false for every
// other file, which the caller then treats as a possible audio file.
func (c *SidecarCleaner) Handle(path string) (result Result, handled bool) {
	if !c.Matches(path) {
		return Result{}, false
	}

	result = Result{Path: path, Outcome: OutcomeSidecarDeleted}
	if c.DryRun {
		return result, true
	}
	if err := removeSource(path); err != nil {
		return result.failed(fmt.Errorf("delete sidecar: %w", err)), true
	}
	return result, true
}
