package tags

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

func writeFLACFile(t *testing.T, path string, comments [][2]string) {
	t.Helper()
	cmt := flacvorbis.New()
	for _, kv := range comments {
		if err := cmt.Add(kv[0], kv[1]); err != nil {
			t.Fatalf("add vorbis comment %s: %v", kv[0], err)
		}
	}
	cmtBlock := cmt.Marshal()
	stream := &flac.File{
		Meta: []*flac.MetaDataBlock{
			{Type: flac.StreamInfo, Data: make([]byte, 34)},
			&cmtBlock,
		},
	}
	if err := os.WriteFile(path, stream.Marshal(), 0o644); err != nil {
		t.Fatalf("write flac fixture: %v", err)
	}
}

func TestFLACReaderReadsVorbisComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.flac")
	writeFLACFile(t, path, [][2]string{
		{"ARTIST", "First Artist"},
		{"ARTIST", "Second Artist"},
		{"ALBUM ARTIST", "Various"},
		{"ALBUM", "Compilation"},
		{"TITLE", "Ignored"},
	})

	got, err := (FLACReader{}).Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if artists := got[KeyArtist]; len(artists) != 2 || artists[1] != "Second Artist" {
		t.Fatalf("expected repeated ARTIST fields as separate values, got %v", artists)
	}
	if got.First(KeyArtist) != "First Artist" {
		t.Fatalf("expected first artist value, got %q", got.First(KeyArtist))
	}
	if got.First(KeyAlbumArtist) != "Various" || got.First(KeyAlbum) != "Compilation" {
		t.Fatalf("unexpected tags: %v", got)
	}
	if _, ok := got["title"]; ok {
		t.Fatalf("unknown fields must not be collected: %v", got)
	}
}

func TestFLACReaderAlbumArtistAliases(t *testing.T) {
	for _, field := range []string{"ALBUMARTIST", "ALBUM ARTIST", "ALBUM_ARTIST", "albumartist"} {
		path := filepath.Join(t.TempDir(), "alias.flac")
		writeFLACFile(t, path, [][2]string{{field, "Label Sampler"}})

		got, err := (FLACReader{}).Read(path)
		if err != nil {
			t.Fatalf("%s: read: %v", field, err)
		}
		if got.First(KeyAlbumArtist) != "Label Sampler" {
			t.Fatalf("%s: expected album artist, got %v", field, got)
		}
	}
}

func TestFLACReaderWithoutKnownFieldsReportsNoTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.flac")
	writeFLACFile(t, path, [][2]string{{"TITLE", "Only a title"}})

	if _, err := (FLACReader{}).Read(path); !errors.Is(err, ErrNoTags) {
		t.Fatalf("expected ErrNoTags, got %v", err)
	}
}

func riffChunk(id string, payload []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString(id)
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	if len(payload)%2 == 1 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func writeWAVFile(t *testing.T, path string, chunks ...[]byte) {
	t.Helper()
	body := &bytes.Buffer{}
	body.WriteString("WAVE")
	body.Write(riffChunk("fmt ", make([]byte, 16)))
	for _, chunk := range chunks {
		body.Write(chunk)
	}
	body.Write(riffChunk("data", []byte{0, 0, 0, 0}))

	file := &bytes.Buffer{}
	file.WriteString("RIFF")
	_ = binary.Write(file, binary.LittleEndian, uint32(body.Len()))
	file.Write(body.Bytes())
	if err := os.WriteFile(path, file.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav fixture: %v", err)
	}
}

func infoList(fields map[string]string) []byte {
	payload := &bytes.Buffer{}
	payload.WriteString("INFO")
	for id, value := range fields {
		payload.Write(riffChunk(id, append([]byte(value), 0)))
	}
	return riffChunk("LIST", payload.Bytes())
}

func TestWAVReaderReadsID3Chunk(t *testing.T) {
	tag := id3v2.NewEmptyTag()
	tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, "Various")
	tag.AddTextFrame("TALB", id3v2.EncodingUTF8, "Field Recordings")
	encoded := &bytes.Buffer{}
	if _, err := tag.WriteTo(encoded); err != nil {
		t.Fatalf("encode id3 tag: %v", err)
	}
	path := filepath.Join(t.TempDir(), "take.wav")
	writeWAVFile(t, path, infoList(map[string]string{"IART": "Info Artist"}), riffChunk("id3 ", encoded.Bytes()))

	got, err := NewFormatReader().Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.First(KeyAlbumArtist) != "Various" || got.First(KeyAlbum) != "Field Recordings" {
		t.Fatalf("unexpected tags: %v", got)
	}
	if got.First(KeyArtist) != "Info Artist" {
		t.Fatalf("expected INFO artist alongside id3 frames, got %v", got)
	}
}

func TestWAVReaderReadsInfoList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.wav")
	writeWAVFile(t, path, infoList(map[string]string{"IART": "Odd", "IPRD": "Lengths"}))

	got, err := (WAVReader{}).Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.First(KeyArtist) != "Odd" || got.First(KeyAlbum) != "Lengths" {
		t.Fatalf("unexpected tags: %v", got)
	}
}

func TestWAVReaderRejectsNonRIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.wav")
	if err := os.WriteFile(path, []byte("not a riff file at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (WAVReader{}).Read(path); !errors.Is(err, ErrNoTags) {
		t.Fatalf("expected ErrNoTags, got %v", err)
	}
}
