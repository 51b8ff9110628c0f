package config

import (
	"fmt"
	"strings"
)

func DefaultTemplate() string {
	return fmt.Sprintf(`version: 1
# Where new downloads land. Every file below it is a candidate.
source_dir: %q
# Library root; files end up in <destination_dir>/<Artist>/<Album>/.
destination_dir: %q
audio_extensions: [%s]
# Download-tool leftovers deleted on sight.
sidecar_extensions: [%s]
prune_empty_dirs: true
`, DefaultSourceDir, DefaultDestinationDir, quoteList(DefaultAudioExtensions), quoteList(DefaultSidecarExtensions))
}

func quoteList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, fmt.Sprintf("%q", value))
	}
	return strings.Join(quoted, ", ")
}
