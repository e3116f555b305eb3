package entity

import (
	"fmt"
	"strings"
)

const (
	FormatAtom = "atom"
	FormatRSS  = "rss"
	FormatJSON = "json"
)

// StdoutTarget makes the feed go to standard output instead of a file.
const StdoutTarget = "-"

// FeedParams represents validated parameters for feed generation
type FeedParams struct {
	// Format is the feed format: "rss" (podcast feed), "atom" or "json"
	Format string

	// Target is where the feed is written: a file path, "-" or a redis:// URL
	Target string
}

// NewFeedParams validates the format and target and creates a new FeedParams
func NewFeedParams(format, target string) (*FeedParams, error) {
	format = strings.ToLower(strings.TrimSpace(format))

	if format == "" {
		format = FormatRSS
	} else if format != FormatRSS && format != FormatAtom && format != FormatJSON {
		return nil, fmt.Errorf("format must be %s, %s or %s", FormatRSS, FormatAtom, FormatJSON)
	}

	target = strings.TrimSpace(target)

	if target == "" {
		return nil, fmt.Errorf("output target is required")
	}

	return &FeedParams{
		Format: format,
		Target: target,
	}, nil
}

// ContentType returns the MIME type of the feed format
func (p *FeedParams) ContentType() string {
	switch p.Format {
	case FormatAtom:
		return "application/atom+xml"
	case FormatJSON:
		return "application/feed+json"
	default:
		return "application/rss+xml"
	}
}
