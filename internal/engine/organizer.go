package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jaa/musicmaid/internal/config"
	"github.com/jaa/musicmaid/internal/output"
)

var ErrInterrupted = errors.New("organization cancelled by user")

type Organizer struct {
	Resolver KeyResolver
	Emitter  output.EventEmitter
	Now      func() time.Time
}

func NewOrganizer(resolver KeyResolver, emitter output.EventEmitter) *Organizer {
	if emitter == nil {
		emitter = noOpEmitter{}
	}
	return &Organizer{
		Resolver: resolver,
		Emitter:  emitter,
		Now:      time.Now,
	}
}

type noOpEmitter struct{}

func (noOpEmitter) Emit(event output.Event) error {
	return nil
}

type run struct {
	req      Request
	placer   *Placer
	sidecars *SidecarCleaner
	audio    map[string]struct{}
	stats    Stats

	// gone holds paths a dry run pretends to have removed.
	gone map[string]struct{}

	// nestedDestination is set when the library lives strictly below the
	// source; the walk and pruning then leave its subtree alone.
	nestedDestination bool
}

func (r *run) isGone(path string) bool {
	_, ok := r.gone[path]
	return ok
}

// Organize walks req.SourceDir once, relocating audio files and deleting
// sidecars, then prunes directories left empty. Per-file failures are
// counted in the returned Stats; only problems that prevent the run from
// starting are returned as errors. ErrInterrupted is returned together with
// the stats gathered so far when ctx is cancelled.
func (o *Organizer) Organize(ctx context.Context, req Request) (Stats, error) {
	if o.Now == nil {
		o.Now = time.Now
	}

	req, err := normalizeRequest(req)
	if err != nil {
		return Stats{}, err
	}
	if err := checkSourceDir(req.SourceDir); err != nil {
		return Stats{}, err
	}

	if !req.DryRun {
		if err := os.MkdirAll(req.DestinationDir, 0o755); err != nil {
			return Stats{}, fmt.Errorf("create destination directory: %w", err)
		}
		unlock, err := LockLibrary(req.DestinationDir)
		if err != nil {
			return Stats{}, err
		}
		defer func() {
			_ = unlock()
		}()
	}

	r := &run{
		req:      req,
		placer:   NewPlacer(req.DestinationDir, req.DryRun),
		sidecars: &SidecarCleaner{Extensions: req.SidecarExtensions, DryRun: req.DryRun},
		audio:    map[string]struct{}{},
		gone:     map[string]struct{}{},

		nestedDestination: isStrictlyBelow(req.DestinationDir, req.SourceDir),
	}
	for _, ext := range req.AudioExtensions {
		r.audio[strings.ToLower(ext)] = struct{}{}
	}

	_ = o.Emitter.Emit(output.Event{
		Timestamp: o.Now(),
		Level:     output.LevelInfo,
		Event:     output.EventRunStarted,
		Message:   fmt.Sprintf("organizing %s -> %s", req.SourceDir, req.DestinationDir),
		Details: map[string]any{
			"source":      req.SourceDir,
			"destination": req.DestinationDir,
			"dry_run":     req.DryRun,
		},
	})

	walkErr := filepath.WalkDir(req.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == req.SourceDir {
				return err
			}
			o.warn(output.EventFileFailed, path, fmt.Sprintf("couldn't read %s: %v", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if d.IsDir() {
			if path != req.SourceDir && r.insideDestination(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || path == LockPath(req.DestinationDir) {
			return nil
		}
		o.processFile(r, path)
		return nil
	})
	if walkErr != nil {
		return r.stats, fmt.Errorf("walk source directory: %w", walkErr)
	}

	if ctx.Err() == nil && req.PruneEmptyDirs {
		o.pruneEmptyDirs(ctx, r)
	}

	if ctx.Err() != nil {
		o.finish(r, output.LevelError, "interrupted")
		return r.stats, ErrInterrupted
	}
	o.finish(r, output.LevelInfo, "organization complete")
	return r.stats, nil
}

func (o *Organizer) processFile(r *run, path string) {
	if result, handled := r.sidecars.Handle(path); handled {
		o.record(r, result)
		return
	}

	if _, ok := r.audio[strings.ToLower(filepath.Ext(path))]; !ok {
		o.record(r, Result{Path: path, Outcome: OutcomeSkipped})
		return
	}

	key, err := o.Resolver.Resolve(path)
	if err != nil {
		o.warn(output.EventMetadataMissing, path, fmt.Sprintf("%s: %v (using %s)", filepath.Base(path), err, key))
	}
	o.record(r, r.placer.Place(path, key))
}

func (o *Organizer) record(r *run, result Result) {
	r.stats.Record(result)

	name := filepath.Base(result.Path)
	prefix := ""
	if r.req.DryRun {
		prefix = "would "
	}

	event := output.Event{
		Timestamp: o.Now(),
		Level:     output.LevelInfo,
		Path:      result.Path,
		Details: map[string]any{
			"outcome": string(result.Outcome),
		},
	}
	if result.Destination != "" {
		event.Details["destination"] = result.Destination
	}

	switch result.Outcome {
	case OutcomeOrganized:
		event.Event = output.EventFileOrganized
		event.Message = fmt.Sprintf("%sorganize: %s -> %s/", prefix, name, result.Key)
		event.Details["artist"] = result.Key.Artist
		event.Details["album"] = result.Key.Album
	case OutcomeDuplicateRemoved:
		event.Event = output.EventFileDuplicate
		event.Message = fmt.Sprintf("%sremove duplicate: %s (exists in %s/)", prefix, name, result.Key)
	case OutcomeSidecarDeleted:
		event.Event = output.EventSidecarDeleted
		event.Message = fmt.Sprintf("%sdelete sidecar file: %s", prefix, name)
	case OutcomeError:
		event.Event = output.EventFileFailed
		event.Level = output.LevelError
		event.Message = fmt.Sprintf("error processing %s: %v", name, result.Err)
		event.Details["error"] = result.Err.Error()
	default:
		event.Event = output.EventFileSkipped
		event.Message = fmt.Sprintf("skipped: %s", name)
	}
	if r.req.DryRun && result.Outcome != OutcomeError && result.Outcome != OutcomeSkipped {
		r.gone[result.Path] = struct{}{}
	}

	_ = o.Emitter.Emit(event)
}

func (o *Organizer) warn(name output.EventName, path string, message string) {
	_ = o.Emitter.Emit(output.Event{
		Timestamp: o.Now(),
		Level:     output.LevelWarn,
		Event:     name,
		Path:      path,
		Message:   message,
	})
}

func (o *Organizer) finish(r *run, level output.Level, headline string) {
	s := r.stats
	_ = o.Emitter.Emit(output.Event{
		Timestamp: o.Now(),
		Level:     level,
		Event:     output.EventRunFinished,
		Message: fmt.Sprintf("%s: organized=%d duplicates=%d sidecars=%d errors=%d",
			headline, s.Organized, s.DuplicatesRemoved, s.SidecarsDeleted, s.Errors),
		Details: map[string]any{
			"organized":          s.Organized,
			"duplicates_removed": s.DuplicatesRemoved,
			"sidecars_deleted":   s.SidecarsDeleted,
			"errors":             s.Errors,
			"dirs_removed":       s.DirsRemoved,
			"ignored":            s.Ignored,
			"dry_run":            r.req.DryRun,
		},
	})
}

// insideDestination reports whether dir is the destination or below it.
// It only ever matches when the destination is nested in the source; a
// source inside the library, or the library itself, is walked in full.
func (r *run) insideDestination(dir string) bool {
	if !r.nestedDestination {
		return false
	}
	return dir == r.req.DestinationDir || isStrictlyBelow(dir, r.req.DestinationDir)
}

func isStrictlyBelow(path string, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func normalizeRequest(req Request) (Request, error) {
	if strings.TrimSpace(req.SourceDir) == "" {
		return req, fmt.Errorf("source directory must be set")
	}
	if strings.TrimSpace(req.DestinationDir) == "" {
		return req, fmt.Errorf("destination directory must be set")
	}

	source, err := filepath.Abs(req.SourceDir)
	if err != nil {
		return req, fmt.Errorf("resolve source directory: %w", err)
	}
	destination, err := filepath.Abs(req.DestinationDir)
	if err != nil {
		return req, fmt.Errorf("resolve destination directory: %w", err)
	}
	if source, err = resolveExisting(source); err != nil {
		return req, fmt.Errorf("resolve source directory: %w", err)
	}
	if destination, err = resolveExisting(destination); err != nil {
		return req, fmt.Errorf("resolve destination directory: %w", err)
	}
	req.SourceDir = source
	req.DestinationDir = destination

	if len(req.AudioExtensions) == 0 {
		req.AudioExtensions = slices.Clone(config.DefaultAudioExtensions)
	}
	if len(req.SidecarExtensions) == 0 {
		req.SidecarExtensions = slices.Clone(config.DefaultSidecarExtensions)
	}
	return req, nil
}

func checkSourceDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("source directory doesn't exist: %s", dir)
		}
		return fmt.Errorf("stat source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source is not a directory: %s", dir)
	}
	return nil
}

// resolveExisting follows symlinks in the longest existing prefix of path
// and re-appends the part that does not exist yet. A symlinked source root
// is walked as its target, and both roots compare as real paths.
func resolveExisting(path string) (string, error) {
	missing := []string{}
	current := path
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return path, nil
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}
