package metadata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nDmitry/podfeed/internal/entity"
)

// maxMediaURLLine bounds a single table row; signed googlevideo URLs run to a few KB.
const maxMediaURLLine = 1 << 20

// MediaURLs maps an entry ID to its resolved media URL.
type MediaURLs map[string]string

// ReadMediaURLs reads the headerless "id,url" table printed by the downloader.
//
// Lines are taken verbatim: quotes carry no meaning. Rows are applied in order, so
// when an ID repeats the last row wins. Media URLs may contain commas: everything
// after the first one belongs to the URL.
func ReadMediaURLs(r io.Reader) (MediaURLs, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMediaURLLine)

	urls := MediaURLs{}
	line := 0

	for scanner.Scan() {
		line++

		row := strings.TrimSuffix(scanner.Text(), "\r")

		if strings.TrimSpace(row) == "" {
			continue
		}

		id, url, ok := strings.Cut(row, ",")

		if !ok {
			return nil, fmt.Errorf("%w: media URL table line %d has no url column", entity.ErrMalformedInput, line)
		}

		id = strings.TrimSpace(id)

		if id == "" {
			return nil, fmt.Errorf("%w: media URL table line %d has an empty id", entity.ErrMalformedInput, line)
		}

		urls[id] = strings.TrimSpace(url)
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: media URL table line %d is longer than %d bytes", entity.ErrMalformedInput, line+1, maxMediaURLLine)
		}

		return nil, &entity.IOError{Op: "read media URL table", Err: err}
	}

	return urls, nil
}

// Lookup returns the media URL of an entry. Empty URLs count as unresolved.
func (m MediaURLs) Lookup(id string) (string, bool) {
	url, ok := m[id]

	if !ok || url == "" {
		return "", false
	}

	return url, true
}
