package metadata

import (
	"fmt"
	"math"

	"github.com/nDmitry/podfeed/internal/app"
	"github.com/nDmitry/podfeed/internal/entity"
)

// Build joins the channel dump with the media URL table.
//
// Entries keep the document order. An entry without a media URL is still included
// with a nil AudioURL, and absent descriptions stay nil rather than becoming "".
func Build(doc *Document, urls MediaURLs) (*entity.Channel, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no metadata document", entity.ErrMalformedInput)
	}

	if err := doc.validateEntries(); err != nil {
		return nil, err
	}

	required := []struct {
		field string
		value *string
	}{
		{"channel_id", doc.ChannelID},
		{"channel", doc.Channel},
		{"channel_url", doc.ChannelURL},
	}

	for _, r := range required {
		if r.value == nil {
			return nil, &entity.MissingFieldError{Field: r.field}
		}
	}

	channel := &entity.Channel{
		ID:          *doc.ChannelID,
		Title:       *doc.Channel,
		Description: copyString(doc.Description),
		URL:         *doc.ChannelURL,
		AvatarURL:   avatarURL(doc.Thumbnails),
		Entries:     make([]entity.ChannelEntry, 0, len(doc.Entries)),
	}

	seen := make(map[string]struct{}, len(doc.Entries))

	for _, rec := range doc.Entries {
		if _, dup := seen[*rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate entry id %s", entity.ErrMalformedInput, *rec.ID)
		}

		seen[*rec.ID] = struct{}{}

		channel.Entries = append(channel.Entries, buildEntry(rec, urls))
	}

	app.Logger().Debug("Built channel model",
		"channelId", channel.ID,
		"entries", len(channel.Entries),
		"missingAudio", channel.MissingAudio())

	return channel, nil
}

func buildEntry(rec *EntryRecord, urls MediaURLs) entity.ChannelEntry {
	entry := entity.ChannelEntry{
		ID:          *rec.ID,
		Title:       entity.Deref(rec.Title),
		Description: copyString(rec.Description),
		Duration:    copyFloat(rec.Duration),
		URL:         entity.Deref(rec.URL),
		CoverImages: make([]entity.CoverImage, 0, len(rec.Thumbnails)),
	}

	if rec.Timestamp != nil {
		ts := int64(math.Floor(*rec.Timestamp))
		entry.Timestamp = &ts
	}

	for _, th := range rec.Thumbnails {
		entry.CoverImages = append(entry.CoverImages, entity.CoverImage{
			URL:    th.URL,
			Width:  th.Width,
			Height: th.Height,
		})
	}

	if url, ok := urls.Lookup(entry.ID); ok {
		entry.AudioURL = &url
	}

	return entry
}

// avatarURL picks the first thumbnail tagged as the uncropped avatar.
func avatarURL(thumbnails []Thumbnail) *string {
	for _, th := range thumbnails {
		if th.ID == AvatarThumbnailID {
			url := th.URL
			return &url
		}
	}

	return nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}

	v := *s

	return &v
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}

	v := *f

	return &v
}
