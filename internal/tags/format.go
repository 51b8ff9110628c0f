package tags

import (
	"errors"
	"path/filepath"
	"strings"
)

// FormatReader picks readers by file extension and tries them in order.
// The first reader returning tags wins; when all fail the most specific
// failure is returned, preferring a real read error over ErrNoTags.
type FormatReader struct {
	ByExtension map[string][]Reader
	Fallback    Reader
}

// NewFormatReader wires the native ID3v2 and FLAC readers in front of the
// generic reader. WAV is read natively only. No reader understands WMA (ASF),
// so those files fall back to the default key.
func NewFormatReader() *FormatReader {
	generic := GenericReader{}
	return &FormatReader{
		ByExtension: map[string][]Reader{
			".mp3":  {ID3Reader{}, generic},
			".flac": {FLACReader{}, generic},
			".wav":  {WAVReader{}},
		},
		Fallback: generic,
	}
}

func (r *FormatReader) Read(path string) (Tags, error) {
	readers := r.ByExtension[strings.ToLower(filepath.Ext(path))]
	if r.Fallback != nil && len(readers) == 0 {
		readers = []Reader{r.Fallback}
	}
	if len(readers) == 0 {
		return nil, ErrNoTags
	}

	var failure error
	for _, reader := range readers {
		found, err := reader.Read(path)
		if err == nil && !found.Empty() {
			return found, nil
		}
		if err == nil {
			err = ErrNoTags
		}
		if failure == nil || errors.Is(failure, ErrNoTags) {
			failure = err
		}
	}
	return nil, failure
}
