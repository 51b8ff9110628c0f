package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaa/musicmaid/internal/metadata"
)

func writeFile(t *testing.T, path string, payload string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected %s to be gone, stat err: %v", path, err)
	}
}

func assertContent(t *testing.T, path string, want string) {
	t.Helper()
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(payload) != want {
		t.Fatalf("unexpected content in %s: %q", path, string(payload))
	}
}

func TestPlaceOrganizesIntoArtistAlbum(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "in", "01 Roygbiv.flac")
	writeFile(t, src, "music")
	placer := NewPlacer(filepath.Join(tmp, "lib"), false)

	result := placer.Place(src, metadata.Key{Artist: "Boards of Canada", Album: "Music Has the Right to Children"})
	if result.Outcome != OutcomeOrganized {
		t.Fatalf("expected organized, got %s (%v)", result.Outcome, result.Err)
	}
	want := filepath.Join(tmp, "lib", "Boards of Canada", "Music Has the Right to Children", "01 Roygbiv.flac")
	if result.Destination != want {
		t.Fatalf("unexpected destination %s", result.Destination)
	}
	assertContent(t, want, "music")
	assertMissing(t, src)
}

func TestPlaceExistingDestinationRemovesSource(t *testing.T) {
	tmp := t.TempDir()
	key := metadata.Key{Artist: "Burial", Album: "Untrue"}
	existing := filepath.Join(tmp, "lib", "Burial", "Untrue", "Archangel.mp3")
	writeFile(t, existing, "original")
	src := filepath.Join(tmp, "in", "Archangel.mp3")
	writeFile(t, src, "different bytes")

	result := NewPlacer(filepath.Join(tmp, "lib"), false).Place(src, key)
	if result.Outcome != OutcomeDuplicateRemoved {
		t.Fatalf("expected duplicate, got %s (%v)", result.Outcome, result.Err)
	}
	assertMissing(t, src)
	assertContent(t, existing, "original")
}

func TestPlaceCopyFailureKeepsSource(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "in", "track.mp3")
	writeFile(t, src, "audio")

	origCopy := copyVerified
	copyVerified = func(string, string) error { return errors.New("no space left on device") }
	t.Cleanup(func() {
		copyVerified = origCopy
	})

	result := NewPlacer(filepath.Join(tmp, "lib"), false).Place(src, metadata.DefaultKey())
	if result.Outcome != OutcomeError {
		t.Fatalf("expected error outcome, got %s", result.Outcome)
	}
	if !strings.Contains(result.Err.Error(), "no space left") {
		t.Fatalf("expected underlying cause, got %v", result.Err)
	}
	assertContent(t, src, "audio")
	if _, err := os.Stat(filepath.Join(tmp, "lib", metadata.UnknownArtist, metadata.UnknownAlbum)); err != nil {
		t.Fatalf("expected created album directory to be left in place: %v", err)
	}
}

func TestPlaceSourceRemovalFailureIsError(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "in", "track.mp3")
	writeFile(t, src, "audio")

	origRemove := removeSource
	removeSource = func(string) error { return os.ErrPermission }
	t.Cleanup(func() {
		removeSource = origRemove
	})

	result := NewPlacer(filepath.Join(tmp, "lib"), false).Place(src, metadata.DefaultKey())
	if result.Outcome != OutcomeError || !errors.Is(result.Err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %s (%v)", result.Outcome, result.Err)
	}
	assertContent(t, result.Destination, "audio")
}

func TestPlaceVanishedSourceIsError(t *testing.T) {
	tmp := t.TempDir()
	result := NewPlacer(filepath.Join(tmp, "lib"), false).Place(filepath.Join(tmp, "in", "gone.mp3"), metadata.DefaultKey())
	if result.Outcome != OutcomeError || !errors.Is(result.Err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %s (%v)", result.Outcome, result.Err)
	}
}

func TestPlaceFileAlreadyInPlaceIsSkipped(t *testing.T) {
	tmp := t.TempDir()
	key := metadata.Key{Artist: "Air", Album: "Moon Safari"}
	path := filepath.Join(tmp, "Air", "Moon Safari", "La femme d'argent.mp3")
	writeFile(t, path, "audio")

	result := NewPlacer(tmp, false).Place(path, key)
	if result.Outcome != OutcomeSkipped {
		t.Fatalf("expected skip for file already at its destination, got %s", result.Outcome)
	}
	assertContent(t, path, "audio")
}

func TestPlaceDryRunTracksPlannedDestinations(t *testing.T) {
	tmp := t.TempDir()
	first := filepath.Join(tmp, "in", "a", "song.mp3")
	second := filepath.Join(tmp, "in", "b", "song.mp3")
	writeFile(t, first, "one")
	writeFile(t, second, "two")
	placer := NewPlacer(filepath.Join(tmp, "lib"), true)
	key := metadata.Key{Artist: "Artist", Album: "Album"}

	if got := placer.Place(first, key).Outcome; got != OutcomeOrganized {
		t.Fatalf("expected first file to be organized, got %s", got)
	}
	if got := placer.Place(second, key).Outcome; got != OutcomeDuplicateRemoved {
		t.Fatalf("expected second file to be a duplicate, got %s", got)
	}
	assertContent(t, first, "one")
	assertContent(t, second, "two")
	assertMissing(t, filepath.Join(tmp, "lib"))
}
