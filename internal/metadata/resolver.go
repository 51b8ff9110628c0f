// Package metadata derives the (artist, album) folder key of an audio file
// from its embedded tags.
package metadata

import (
	"fmt"
	"strings"

	"github.com/jaa/musicmaid/internal/naming"
	"github.com/jaa/musicmaid/internal/tags"
)

const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Key is the sanitized folder pair a file is organized under. Both fields
// are always usable as path components.
type Key struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

func (k Key) String() string {
	return k.Artist + "/" + k.Album
}

// DefaultKey is used for files whose tags cannot be read.
func DefaultKey() Key {
	return Key{Artist: UnknownArtist, Album: UnknownAlbum}
}

type Resolver struct {
	Reader tags.Reader
}

func NewResolver(reader tags.Reader) *Resolver {
	if reader == nil {
		reader = tags.NewFormatReader()
	}
	return &Resolver{Reader: reader}
}

// Resolve always returns a valid key. A non-nil error means the tags could
// not be read and the default key was used; callers report it and carry on.
func (r *Resolver) Resolve(path string) (Key, error) {
	found, err := r.Reader.Read(path)
	if err != nil {
		return DefaultKey(), fmt.Errorf("couldn't read metadata: %w", err)
	}
	if found == nil {
		return DefaultKey(), fmt.Errorf("couldn't read metadata: %w", tags.ErrNoTags)
	}
	return KeyFromTags(found), nil
}

// KeyFromTags applies the album artist > artist priority so compilation
// tracks share one artist folder.
func KeyFromTags(t tags.Tags) Key {
	artist := firstNonBlank(t.First(tags.KeyAlbumArtist), t.First(tags.KeyArtist))
	album := firstNonBlank(t.First(tags.KeyAlbum))
	return Key{
		Artist: sanitizeOr(artist, UnknownArtist),
		Album:  sanitizeOr(album, UnknownAlbum),
	}
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func sanitizeOr(raw string, fallback string) string {
	if raw == "" {
		return fallback
	}
	clean := naming.Sanitize(raw)
	if naming.IsFallback(clean) && strings.TrimSpace(raw) != naming.Fallback {
		return fallback
	}
	return clean
}
