package tags

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2/v2"
)

var id3Frames = map[string]string{
	"TPE2": KeyAlbumArtist,
	"TPE1": KeyArtist,
	"TALB": KeyAlbum,
}

// ID3Reader reads ID3v2 frames directly so that NUL-separated multi-value
// frames (ID3v2.4) keep their individual values.
type ID3Reader struct{}

func (ID3Reader) Read(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tag, err := id3v2.ParseReader(f, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("parse id3v2: %w", err)
	}
	if !tag.HasFrames() {
		return nil, ErrNoTags
	}

	out := Tags{}
	addID3Frames(tag, out)
	if out.Empty() {
		return nil, ErrNoTags
	}
	return out, nil
}

func addID3Frames(tag *id3v2.Tag, out Tags) {
	for id, key := range id3Frames {
		for _, value := range splitNulValues(tag.GetTextFrame(id).Text) {
			out.Add(key, value)
		}
	}
}
