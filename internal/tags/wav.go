package tags

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bogem/id3v2/v2"
)

// RIFF INFO chunk ids mapped onto the organizer keys. INFO has no album
// artist field.
var riffInfoFields = map[string]string{
	"IART": KeyArtist,
	"IPRD": KeyAlbum,
}

// WAVReader reads the tags RIFF/WAVE files carry: an embedded ID3v2 chunk
// ("id3 " or "ID3 ") and the LIST/INFO chunk. ID3 values come first.
type WAVReader struct{}

func (WAVReader) Read(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var header [12]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrNoTags
		}
		return nil, fmt.Errorf("read riff header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, ErrNoTags
	}

	id3Tags := Tags{}
	infoTags := Tags{}
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			break
		}
		id := string(chunk[0:4])
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))
		start, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, fmt.Errorf("seek riff chunk: %w", err)
		}

		switch id {
		case "id3 ", "ID3 ":
			if err := readID3Chunk(io.NewSectionReader(f, start, size), id3Tags); err != nil {
				return nil, err
			}
		case "LIST":
			if err := readInfoList(io.NewSectionReader(f, start, size), infoTags); err != nil {
				return nil, err
			}
		}

		// Chunks are word aligned.
		if _, err := f.Seek(start+size+size%2, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek riff chunk: %w", err)
		}
	}

	out := Tags{}
	for _, src := range []Tags{id3Tags, infoTags} {
		for key, values := range src {
			for _, value := range values {
				out.Add(key, value)
			}
		}
	}
	if out.Empty() {
		return nil, ErrNoTags
	}
	return out, nil
}

func readID3Chunk(r io.Reader, out Tags) error {
	tag, err := id3v2.ParseReader(r, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("parse wav id3 chunk: %w", err)
	}
	addID3Frames(tag, out)
	return nil
}

func readInfoList(r io.Reader, out Tags) error {
	payload, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read riff list: %w", err)
	}
	if len(payload) < 4 || string(payload[0:4]) != "INFO" {
		return nil
	}
	payload = payload[4:]
	for len(payload) >= 8 {
		id := string(payload[0:4])
		size := int(binary.LittleEndian.Uint32(payload[4:8]))
		payload = payload[8:]
		if size > len(payload) {
			break
		}
		if key, known := riffInfoFields[id]; known {
			out.Add(key, string(bytes.TrimRight(payload[:size], "\x00")))
		}
		advance := size + size%2
		if advance > len(payload) {
			advance = len(payload)
		}
		payload = payload[advance:]
	}
	return nil
}
