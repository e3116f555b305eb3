package metadata_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nDmitry/podfeed/internal/entity"
	"github.com/nDmitry/podfeed/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func decode(t *testing.T, doc string) *metadata.Document {
	t.Helper()

	d, err := metadata.DecodeDocument(strings.NewReader(doc))
	require.NoError(t, err)

	return d
}

func TestLoad(t *testing.T) {
	channel, err := metadata.Load("testdata/channel.json", "testdata/media_urls.csv")
	require.NoError(t, err)

	want := &entity.Channel{
		ID:          "UCsXVk37bltHxD1rDPwtNM8Q",
		Title:       "Kurzgesagt – In a Nutshell",
		Description: ptr("Videos explaining things with optimistic nihilism.\n\nWe are a small team who want to make science look beautiful & <accessible>."),
		URL:         "https://www.youtube.com/channel/UCsXVk37bltHxD1rDPwtNM8Q",
		AvatarURL:   ptr("https://yt3.googleusercontent.com/avatar=s0?a=1&b=2"),
		Entries: []entity.ChannelEntry{
			{
				ID:          "dQw4w9WgXcQ",
				Title:       "What If the Sun Disappeared? <Part 1>",
				Description: ptr("Sources & further reading: https://example.com/?a=1&b=2"),
				Timestamp:   ptr(int64(1678886400)),
				Duration:    ptr(125.0),
				URL:         "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				CoverImages: []entity.CoverImage{
					{URL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg", Width: 120, Height: 90},
					{URL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", Width: 1280, Height: 720},
				},
				AudioURL: ptr("https://rr3.googlevideo.com/videoplayback?itag=251&final=1"),
			},
			{
				ID:          "9bZkp7q19f0",
				Title:       "The Most Extreme Explosion in the Universe",
				Duration:    ptr(612.5),
				URL:         "https://www.youtube.com/watch?v=9bZkp7q19f0",
				CoverImages: []entity.CoverImage{},
				AudioURL:    ptr("https://rr2.googlevideo.com/videoplayback?itag=140"),
			},
			{
				ID:          "kJQP7kiw5Fk",
				Title:       "Unreleased Short",
				Description: ptr(""),
				URL:         "https://www.youtube.com/shorts/kJQP7kiw5Fk",
				CoverImages: []entity.CoverImage{},
			},
		},
	}

	if diff := cmp.Diff(want, channel); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Join(t *testing.T) {
	doc := decode(t, `{
		"channel_id": "UC1", "channel": "C", "channel_url": "https://example.com/c",
		"entries": [{"id": "a"}, {"id": "b"}, {"id": "c"}]
	}`)

	tests := []struct {
		name     string
		urls     metadata.MediaURLs
		expected map[string]*string
	}{
		{
			name:     "All entries matched",
			urls:     metadata.MediaURLs{"a": "ua", "b": "ub", "c": "uc"},
			expected: map[string]*string{"a": ptr("ua"), "b": ptr("ub"), "c": ptr("uc")},
		},
		{
			name:     "Unmatched entries keep no audio",
			urls:     metadata.MediaURLs{"b": "ub", "zzz": "unused"},
			expected: map[string]*string{"a": nil, "b": ptr("ub"), "c": nil},
		},
		{
			name:     "Empty URL counts as unmatched",
			urls:     metadata.MediaURLs{"a": ""},
			expected: map[string]*string{"a": nil, "b": nil, "c": nil},
		},
		{
			name:     "Empty table",
			urls:     nil,
			expected: map[string]*string{"a": nil, "b": nil, "c": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel, err := metadata.Build(doc, tt.urls)
			require.NoError(t, err)
			require.Len(t, channel.Entries, 3)

			for _, e := range channel.Entries {
				assert.Equal(t, tt.expected[e.ID], e.AudioURL, "entry %s", e.ID)
			}
		})
	}
}

func TestBuild_DuplicateRowsLastWins(t *testing.T) {
	doc := decode(t, `{"channel_id": "UC1", "channel": "C", "channel_url": "u", "entries": [{"id": "a"}]}`)

	urls, err := metadata.ReadMediaURLs(strings.NewReader("a,first\nb,other\na,second\n"))
	require.NoError(t, err)

	channel, err := metadata.Build(doc, urls)
	require.NoError(t, err)

	require.NotNil(t, channel.Entries[0].AudioURL)
	assert.Equal(t, "second", *channel.Entries[0].AudioURL)
}

func TestBuild_PreservesOrder(t *testing.T) {
	doc := decode(t, `{
		"channel_id": "UC1", "channel": "C", "channel_url": "u",
		"entries": [{"id": "z"}, {"id": "a"}, {"id": "m"}, {"id": "b"}]
	}`)

	channel, err := metadata.Build(doc, metadata.MediaURLs{})
	require.NoError(t, err)

	ids := make([]string, 0, len(channel.Entries))

	for _, e := range channel.Entries {
		ids = append(ids, e.ID)
	}

	assert.Equal(t, []string{"z", "a", "m", "b"}, ids)
}

func TestBuild_AvatarSelection(t *testing.T) {
	tests := []struct {
		name       string
		thumbnails string
		expected   *string
	}{
		{
			name:       "First avatar wins",
			thumbnails: `[{"id": "a", "url": "u1"}, {"id": "avatar_uncropped", "url": "u2"}, {"id": "avatar_uncropped", "url": "u3"}]`,
			expected:   ptr("u2"),
		},
		{
			name:       "No avatar",
			thumbnails: `[{"id": "banner_uncropped", "url": "u1"}]`,
			expected:   nil,
		},
		{
			name:       "No thumbnails",
			thumbnails: `null`,
			expected:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decode(t, `{"channel_id": "UC1", "channel": "C", "channel_url": "u", "thumbnails": `+tt.thumbnails+`}`)

			channel, err := metadata.Build(doc, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, channel.AvatarURL)
		})
	}
}

func TestBuild_EmptyEntries(t *testing.T) {
	for _, entries := range []string{`[]`, `null`} {
		doc := decode(t, `{"channel_id": "UC1", "channel": "C", "channel_url": "u", "entries": `+entries+`}`)

		channel, err := metadata.Build(doc, metadata.MediaURLs{"a": "ua"})
		require.NoError(t, err)
		assert.NotNil(t, channel.Entries)
		assert.Empty(t, channel.Entries)
	}
}

func TestBuild_AbsentVersusEmptyDescription(t *testing.T) {
	doc := decode(t, `{
		"channel_id": "UC1", "channel": "C", "channel_url": "u",
		"entries": [{"id": "a"}, {"id": "b", "description": ""}, {"id": "c", "description": null}]
	}`)

	channel, err := metadata.Build(doc, nil)
	require.NoError(t, err)

	assert.Nil(t, channel.Description)
	assert.Nil(t, channel.Entries[0].Description)
	assert.Equal(t, ptr(""), channel.Entries[1].Description)
	assert.Nil(t, channel.Entries[2].Description)
}

func TestBuild_FractionalTimestamp(t *testing.T) {
	doc := decode(t, `{"channel_id": "UC1", "channel": "C", "channel_url": "u", "entries": [{"id": "a", "timestamp": 1678886400.75}]}`)

	channel, err := metadata.Build(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, ptr(int64(1678886400)), channel.Entries[0].Timestamp)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name         string
		doc          string
		missingField string
		malformed    bool
	}{
		{
			name:         "Missing channel id",
			doc:          `{"channel": "C", "channel_url": "u"}`,
			missingField: "channel_id",
		},
		{
			name:         "Missing title",
			doc:          `{"channel_id": "UC1", "channel_url": "u"}`,
			missingField: "channel",
		},
		{
			name:         "Null url",
			doc:          `{"channel_id": "UC1", "channel": "C", "channel_url": null}`,
			missingField: "channel_url",
		},
		{
			name:      "Duplicate entry ids",
			doc:       `{"channel_id": "UC1", "channel": "C", "channel_url": "u", "entries": [{"id": "a"}, {"id": "a"}]}`,
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.Build(decode(t, tt.doc), nil)
			require.Error(t, err)

			if tt.malformed {
				assert.ErrorIs(t, err, entity.ErrMalformedInput)
				return
			}

			var mf *entity.MissingFieldError
			require.ErrorAs(t, err, &mf)
			assert.Equal(t, tt.missingField, mf.Field)
			assert.ErrorIs(t, err, entity.ErrMissingField)
		})
	}
}

func TestBuild_NilDocument(t *testing.T) {
	_, err := metadata.Build(nil, nil)
	assert.ErrorIs(t, err, entity.ErrMalformedInput)
}
