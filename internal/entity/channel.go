package entity

// Channel is one video channel and its entries, the source of a generated feed.
// It is built once from the downloader output and treated as read-only afterwards.
type Channel struct {
	ID          string
	Title       string
	Description *string
	URL         string
	// URL of the uncropped avatar thumbnail, nil when the channel has none.
	AvatarURL *string
	// Entries keep the order of the metadata document (most recent first).
	Entries []ChannelEntry
}

// ChannelEntry is one publishable video, an episode in feed terms.
type ChannelEntry struct {
	// Unique within a channel, used as the join key and the item GUID.
	ID          string
	Title       string
	Description *string
	// Epoch seconds.
	Timestamp *int64
	// Seconds.
	Duration *float64
	URL      string
	// Ordered from the smallest to the largest resolution.
	CoverImages []CoverImage
	// Resolved media URL, nil when the media table had no row for the entry.
	AudioURL *string
}

type CoverImage struct {
	URL    string
	Width  int
	Height int
}

// LargestCover returns the last cover image, which is the highest resolution one.
func (e *ChannelEntry) LargestCover() (CoverImage, bool) {
	if len(e.CoverImages) == 0 {
		return CoverImage{}, false
	}

	return e.CoverImages[len(e.CoverImages)-1], true
}

// MissingAudio counts entries that have no resolved media URL.
func (c *Channel) MissingAudio() int {
	n := 0

	for _, e := range c.Entries {
		if e.AudioURL == nil {
			n++
		}
	}

	return n
}

// Deref returns the pointed-to string or an empty one.
func Deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
