package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaa/musicmaid/internal/fileops"
	"github.com/jaa/musicmaid/internal/metadata"
)

var (
	mkdirAll          = os.MkdirAll
	copyVerified      = fileops.CopyVerified
	removeSource      = fileops.Remove
	destinationExists = fileops.Exists
)

// Placer moves audio files into Root/Artist/Album/. An existing file at the
// destination is the only duplicate signal; contents are never compared.
type Placer struct {
	Root   string
	DryRun bool

	planned map[string]struct{}
}

func NewPlacer(root string, dryRun bool) *Placer {
	return &Placer{
		Root:    root,
		DryRun:  dryRun,
		planned: map[string]struct{}{},
	}
}

func (p *Placer) Destination(path string, key metadata.Key) string {
	return filepath.Join(p.Root, key.Artist, key.Album, filepath.Base(path))
}

// Place relocates path according to key. Failures are returned as an
// OutcomeError result; directories created before a failure are left in
// place.
func (p *Placer) Place(path string, key metadata.Key) Result {
	dest := p.Destination(path, key)
	result := Result{Path: path, Destination: dest, Key: key}

	if filepath.Clean(path) == dest {
		result.Outcome = OutcomeSkipped
		return result
	}

	taken, err := p.taken(dest)
	if err != nil {
		return result.failed(fmt.Errorf("check destination: %w", err))
	}
	if taken {
		if !p.DryRun {
			if err := removeSource(path); err != nil {
				return result.failed(fmt.Errorf("remove duplicate source: %w", err))
			}
		}
		result.Outcome = OutcomeDuplicateRemoved
		return result
	}

	if p.DryRun {
		p.planned[dest] = struct{}{}
		result.Outcome = OutcomeOrganized
		return result
	}

	if err := mkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return result.failed(fmt.Errorf("create album directory: %w", err))
	}
	if err := copyVerified(path, dest); err != nil {
		return result.failed(err)
	}
	if err := removeSource(path); err != nil {
		return result.failed(fmt.Errorf("remove source after copy: %w", err))
	}
	result.Outcome = OutcomeOrganized
	return result
}

func (p *Placer) taken(dest string) (bool, error) {
	if _, ok := p.planned[dest]; ok {
		return true, nil
	}
	return destinationExists(dest)
}
