package metadata_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nDmitry/podfeed/internal/entity"
	"github.com/nDmitry/podfeed/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestDecodeDocument_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "Not JSON", doc: `channel_id: UC1`},
		{name: "Empty input", doc: ``},
		{name: "Truncated", doc: `{"channel_id": "UC1", "entries": [`},
		{name: "Trailing garbage", doc: `{"channel_id": "UC1"} {"channel_id": "UC2"}`},
		{name: "Top level array", doc: `[{"channel_id": "UC1"}]`},
		{name: "Wrong field type", doc: `{"channel_id": 42}`},
		{name: "Entries not a list", doc: `{"entries": {"id": "a"}}`},
		{name: "Null entry", doc: `{"entries": [{"id": "a"}, null]}`},
		{name: "Entry without id", doc: `{"entries": [{"title": "No id"}]}`},
		{name: "Entry with empty id", doc: `{"entries": [{"id": ""}]}`},
		{name: "Duration as text", doc: `{"entries": [{"id": "a", "duration": "125"}]}`},
		{name: "Negative thumbnail size", doc: `{"entries": [{"id": "a", "thumbnails": [{"url": "u", "width": -1}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.DecodeDocument(strings.NewReader(tt.doc))

			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrMalformedInput)
			assert.NotErrorIs(t, err, entity.ErrMissingField)
		})
	}
}

func TestDecodeDocument_MissingFieldsDecode(t *testing.T) {
	// Required fields are checked by Build, decoding only checks the shape.
	doc, err := metadata.DecodeDocument(strings.NewReader(`{"entries": []}`))

	require.NoError(t, err)
	assert.Nil(t, doc.ChannelID)
	assert.Empty(t, doc.Entries)
}

func TestDecodeDocument_ReadError(t *testing.T) {
	_, err := metadata.DecodeDocument(failingReader{})

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrIO)
	assert.NotErrorIs(t, err, entity.ErrMalformedInput)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o600))

	tests := []struct {
		name      string
		metadata  string
		mediaURLs string
		target    error
	}{
		{
			name:      "Metadata file missing",
			metadata:  filepath.Join(dir, "absent.json"),
			mediaURLs: "testdata/media_urls.csv",
			target:    entity.ErrIO,
		},
		{
			name:      "Media table missing",
			metadata:  "testdata/channel.json",
			mediaURLs: filepath.Join(dir, "absent.csv"),
			target:    entity.ErrIO,
		},
		{
			name:      "Metadata not parseable",
			metadata:  broken,
			mediaURLs: "testdata/media_urls.csv",
			target:    entity.ErrMalformedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel, err := metadata.Load(tt.metadata, tt.mediaURLs)

			assert.Nil(t, channel)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}
