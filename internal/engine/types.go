package engine

import (
	"github.com/jaa/musicmaid/internal/metadata"
)

// Outcome tags what happened to a single candidate file.
type Outcome string

const (
	OutcomeOrganized        Outcome = "organized"
	OutcomeDuplicateRemoved Outcome = "duplicate_removed"
	OutcomeSidecarDeleted   Outcome = "sidecar_deleted"
	OutcomeError            Outcome = "error"
	OutcomeSkipped          Outcome = "skipped"
)

type Result struct {
	Outcome     Outcome
	Path        string
	Destination string
	Key         metadata.Key
	Err         error
}

func (r Result) failed(err error) Result {
	r.Outcome = OutcomeError
	r.Err = err
	return r
}

// Stats are the counters of a single run. Organized, DuplicatesRemoved,
// SidecarsDeleted and Errors only ever grow while the run is in progress.
type Stats struct {
	Organized         int `json:"organized"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	SidecarsDeleted   int `json:"sidecars_deleted"`
	Errors            int `json:"errors"`
	DirsRemoved       int `json:"dirs_removed"`
	Ignored           int `json:"ignored"`
}

func (s *Stats) Record(result Result) {
	switch result.Outcome {
	case OutcomeOrganized:
		s.Organized++
	case OutcomeDuplicateRemoved:
		s.DuplicatesRemoved++
	case OutcomeSidecarDeleted:
		s.SidecarsDeleted++
	case OutcomeError:
		s.Errors++
	case OutcomeSkipped:
		s.Ignored++
	}
}

// Handled counts files that reached a successful outcome.
func (s Stats) Handled() int {
	return s.Organized + s.DuplicatesRemoved + s.SidecarsDeleted
}

// SuccessRate is the percentage of attempted files that were handled. ok is
// false when nothing was attempted.
func (s Stats) SuccessRate() (rate float64, ok bool) {
	attempted := s.Handled() + s.Errors
	if attempted == 0 {
		return 0, false
	}
	return float64(s.Handled()) / float64(attempted) * 100, true
}

// KeyResolver derives the destination folder key for an audio file. The
// returned key is always usable; a non-nil error is a recovered diagnostic.
type KeyResolver interface {
	Resolve(path string) (metadata.Key, error)
}

type Request struct {
	SourceDir         string
	DestinationDir    string
	AudioExtensions   []string
	SidecarExtensions []string
	PruneEmptyDirs    bool
	DryRun            bool
}
