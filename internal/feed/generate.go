package feed

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	"github.com/nDmitry/podfeed/internal/entity"
)

// Generator renders a channel in the requested feed format
type Generator struct{}

// Generate creates a feed from a channel and returns it as a byte array
func (g *Generator) Generate(channel *entity.Channel, params *entity.FeedParams) ([]byte, error) {
	if channel == nil {
		return nil, fmt.Errorf("could not generate a feed without a channel")
	}

	switch params.Format {
	case entity.FormatRSS:
		var buf bytes.Buffer

		if err := Serialize(channel, &buf); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	case entity.FormatAtom, entity.FormatJSON:
		return generateRendition(channel, params.Format)
	default:
		return nil, fmt.Errorf("unsupported feed format: %s", params.Format)
	}
}

// generateRendition builds the Atom or JSON Feed version of the channel. These carry
// the same entries and enclosures but none of the itunes extensions.
func generateRendition(channel *entity.Channel, format string) ([]byte, error) {
	feed := &feeds.Feed{
		Id:          channel.URL,
		Title:       channel.Title,
		Link:        &feeds.Link{Href: channel.URL},
		Description: entity.Deref(channel.Description),
	}

	if channel.AvatarURL != nil {
		feed.Image = &feeds.Image{Url: *channel.AvatarURL, Title: channel.Title, Link: channel.URL}
	}

	for _, e := range channel.Entries {
		item := &feeds.Item{
			Id:          e.URL,
			Title:       e.Title,
			Description: entity.Deref(e.Description),
			Link:        &feeds.Link{Href: e.URL},
		}

		if item.Id == "" {
			item.Id = e.ID
		}

		if e.Timestamp != nil {
			item.Created = time.Unix(*e.Timestamp, 0).UTC()
		}

		if e.AudioURL != nil {
			item.Enclosure = &feeds.Enclosure{
				Url:    *e.AudioURL,
				Type:   enclosureType,
				Length: "0",
			}
		}

		feed.Items = append(feed.Items, item)

		if feed.Created.IsZero() || item.Created.After(feed.Created) {
			feed.Created = item.Created
		}
	}

	var content string
	var err error

	switch format {
	case entity.FormatAtom:
		content, err = feed.ToAtom()
	case entity.FormatJSON:
		content, err = feed.ToJSON()
	default:
		return nil, fmt.Errorf("unsupported feed format: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("could not marshal channel %s to %s: %w", channel.ID, format, err)
	}

	return []byte(content), nil
}
