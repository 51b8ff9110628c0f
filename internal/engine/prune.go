package engine

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jaa/musicmaid/internal/fileops"
	"github.com/jaa/musicmaid/internal/output"
)

// pruneEmptyDirs removes empty directories below the source root, deepest
// first, so a parent emptied by removing its children is removed in the
// same pass. The source root itself is kept. Failures are warnings only.
func (o *Organizer) pruneEmptyDirs(ctx context.Context, r *run) {
	root := r.req.SourceDir
	dirs := []string{}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != root {
				o.warn(output.EventDirRemoveFailed, path, fmt.Sprintf("couldn't scan directory %s: %v", path, err))
			}
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if r.insideDestination(path) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})

	sort.SliceStable(dirs, func(i, j int) bool {
		return depth(dirs[i]) > depth(dirs[j])
	})

	_ = o.Emitter.Emit(output.Event{
		Timestamp: o.Now(),
		Level:     output.LevelInfo,
		Event:     output.EventCleanupStarted,
		Message:   "cleaning up empty directories",
		Details: map[string]any{
			"candidates": len(dirs),
		},
	})

	for _, dir := range dirs {
		if ctx.Err() != nil {
			return
		}
		empty, err := fileops.DirEmpty(dir, r.isGone)
		if err != nil {
			o.warn(output.EventDirRemoveFailed, dir, fmt.Sprintf("couldn't inspect directory %s: %v", dir, err))
			continue
		}
		if !empty {
			continue
		}

		if r.req.DryRun {
			r.gone[dir] = struct{}{}
		} else if err := fileops.RemoveDir(dir); err != nil {
			o.warn(output.EventDirRemoveFailed, dir, fmt.Sprintf("couldn't remove directory %s: %v", dir, err))
			continue
		}

		r.stats.DirsRemoved++
		message := fmt.Sprintf("removed empty directory: %s", dir)
		if r.req.DryRun {
			message = fmt.Sprintf("would remove empty directory: %s", dir)
		}
		_ = o.Emitter.Emit(output.Event{
			Timestamp: o.Now(),
			Level:     output.LevelInfo,
			Event:     output.EventDirRemoved,
			Path:      dir,
			Message:   message,
		})
	}
}

func depth(path string) int {
	return strings.Count(filepath.Clean(path), string(filepath.Separator))
}
