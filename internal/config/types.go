package config

// DefaultAudioExtensions are the formats organized unless configured
// otherwise. Matching is case-insensitive.
var DefaultAudioExtensions = []string{".mp3", ".m4a", ".flac", ".wav", ".ogg", ".wma"}

// DefaultSidecarExtensions are deleted on sight. spotDL writes .spotdl sync
// files next to its downloads.
var DefaultSidecarExtensions = []string{".spotdl"}

const (
	DefaultSourceDir      = "~/Downloads/Music"
	DefaultDestinationDir = "~/Music/Library"
)

type Config struct {
	Version           int      `yaml:"version"`
	SourceDir         string   `yaml:"source_dir"`
	DestinationDir    string   `yaml:"destination_dir"`
	AudioExtensions   []string `yaml:"audio_extensions"`
	SidecarExtensions []string `yaml:"sidecar_extensions"`
	PruneEmptyDirs    bool     `yaml:"prune_empty_dirs"`
}

func DefaultConfig() Config {
	return Config{
		Version:           1,
		SourceDir:         DefaultSourceDir,
		DestinationDir:    DefaultDestinationDir,
		AudioExtensions:   append([]string{}, DefaultAudioExtensions...),
		SidecarExtensions: append([]string{}, DefaultSidecarExtensions...),
		PruneEmptyDirs:    true,
	}
}
