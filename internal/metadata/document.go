package metadata

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nDmitry/podfeed/internal/entity"
)

// AvatarThumbnailID tags the channel thumbnail used as the podcast artwork.
const AvatarThumbnailID = "avatar_uncropped"

// Document is the subset of the downloader's channel dump the feed is built from.
// Pointer fields tell an absent value from an empty one.
type Document struct {
	ChannelID   *string        `json:"channel_id"`
	Channel     *string        `json:"channel"`
	Description *string        `json:"description"`
	ChannelURL  *string        `json:"channel_url"`
	Thumbnails  []Thumbnail    `json:"thumbnails"`
	Entries     []*EntryRecord `json:"entries"`
}

type Thumbnail struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type EntryRecord struct {
	ID          *string  `json:"id"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Timestamp   *float64 `json:"timestamp"`
	Duration    *float64 `json:"duration"`
	URL         *string  `json:"url"`
	// Ordered from the smallest to the largest resolution.
	Thumbnails []Thumbnail `json:"thumbnails"`
}

// DecodeDocument reads a whole channel dump. Anything that is not a single JSON object
// of the expected shape is rejected with ErrMalformedInput.
func DecodeDocument(r io.Reader) (*Document, error) {
	contents, err := io.ReadAll(r)

	if err != nil {
		return nil, &entity.IOError{Op: "read metadata document", Err: err}
	}

	var doc Document

	if err = json.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("%w: metadata document: %w", entity.ErrMalformedInput, err)
	}

	if err = doc.validateEntries(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// validateEntries checks the per-entry shape; top-level required fields are checked by Build.
func (d *Document) validateEntries() error {
	for i, e := range d.Entries {
		if e == nil {
			return fmt.Errorf("%w: entry %d is null", entity.ErrMalformedInput, i)
		}

		if e.ID == nil || *e.ID == "" {
			return fmt.Errorf("%w: entry %d has no id", entity.ErrMalformedInput, i)
		}

		for _, th := range e.Thumbnails {
			if th.Width < 0 || th.Height < 0 {
				return fmt.Errorf("%w: entry %s has a thumbnail with negative size", entity.ErrMalformedInput, *e.ID)
			}
		}
	}

	return nil
}
