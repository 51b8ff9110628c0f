// Package tags reads the embedded tag container of an audio file into a
// format-neutral key to values mapping.
package tags

import (
	"errors"
	"strings"
)

// Keys understood by the library organizer. Readers lower-case and unify
// format-specific frame names onto these.
const (
	KeyAlbumArtist = "albumartist"
	KeyArtist      = "artist"
	KeyAlbum       = "album"
)

// ErrNoTags reports a readable file without a tag container, or with a
// container that carries none of the known keys.
var ErrNoTags = errors.New("no tags found")

// Tags maps a normalized tag name to every value stored under it, in file
// order.
type Tags map[string][]string

// Add appends value under key, ignoring empty values.
func (t Tags) Add(key string, value string) {
	if value == "" {
		return
	}
	key = strings.ToLower(key)
	t[key] = append(t[key], value)
}

// First returns the first value stored under key. Later values of a
// multi-valued tag are never merged in.
func (t Tags) First(key string) string {
	values := t[strings.ToLower(key)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Empty reports whether no values were collected.
func (t Tags) Empty() bool {
	for _, values := range t {
		if len(values) > 0 {
			return false
		}
	}
	return true
}

// Reader extracts Tags from the file at path. Implementations open and
// close the file themselves.
type Reader interface {
	Read(path string) (Tags, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(path string) (Tags, error)

func (f ReaderFunc) Read(path string) (Tags, error) {
	return f(path)
}

func splitNulValues(raw string) []string {
	parts := strings.Split(raw, "\x00")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		values = append(values, part)
	}
	return values
}
