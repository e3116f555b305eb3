package metadata

import (
	"os"

	"github.com/nDmitry/podfeed/internal/app"
	"github.com/nDmitry/podfeed/internal/entity"
)

// Load reads the channel dump and the media URL table from disk and builds the channel.
func Load(metadataPath, mediaURLsPath string) (*entity.Channel, error) {
	doc, err := readDocument(metadataPath)

	if err != nil {
		return nil, err
	}

	urls, err := readMediaURLs(mediaURLsPath)

	if err != nil {
		return nil, err
	}

	channel, err := Build(doc, urls)

	if err != nil {
		return nil, err
	}

	app.Logger().Info("Loaded channel metadata",
		"channelId", channel.ID,
		"title", channel.Title,
		"entries", len(channel.Entries),
		"mediaUrls", len(urls))

	return channel, nil
}

func readDocument(path string) (*Document, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, &entity.IOError{Op: "open metadata document", Err: err}
	}

	defer f.Close()

	return DecodeDocument(f)
}

func readMediaURLs(path string) (MediaURLs, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, &entity.IOError{Op: "open media URL table", Err: err}
	}

	defer f.Close()

	return ReadMediaURLs(f)
}
