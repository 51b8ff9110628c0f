package tags

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// GenericReader handles every container github.com/dhowden/tag knows:
// ID3v1/ID3v2, MP4 atoms, FLAC and OGG Vorbis comments.
type GenericReader struct{}

func (GenericReader) Read(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil, ErrNoTags
		}
		return nil, fmt.Errorf("read tags: %w", err)
	}

	out := Tags{}
	out.Add(KeyAlbumArtist, m.AlbumArtist())
	out.Add(KeyArtist, m.Artist())
	out.Add(KeyAlbum, m.Album())
	if out.Empty() {
		return nil, ErrNoTags
	}
	return out, nil
}
