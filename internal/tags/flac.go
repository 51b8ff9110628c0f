package tags

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

var vorbisFields = map[string]string{
	"ALBUMARTIST":  KeyAlbumArtist,
	"ALBUM ARTIST": KeyAlbumArtist,
	"ALBUM_ARTIST": KeyAlbumArtist,
	"ARTIST":       KeyArtist,
	"ALBUM":        KeyAlbum,
}

// FLACReader reads the Vorbis comment block of a FLAC stream. Repeated
// fields (ARTIST=a, ARTIST=b) become multiple values.
type FLACReader struct{}

func (FLACReader) Read(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stream, err := flac.ParseMetadata(f)
	if err != nil {
		return nil, fmt.Errorf("parse flac metadata: %w", err)
	}

	out := Tags{}
	for _, block := range stream.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		comments, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, fmt.Errorf("parse vorbis comment: %w", err)
		}
		for _, comment := range comments.Comments {
			name, value, ok := strings.Cut(comment, "=")
			if !ok {
				continue
			}
			if key, known := vorbisFields[strings.ToUpper(strings.TrimSpace(name))]; known {
				out.Add(key, value)
			}
		}
	}
	if out.Empty() {
		return nil, ErrNoTags
	}
	return out, nil
}
