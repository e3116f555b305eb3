package feed

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// pubDateLayout is RFC 1123 with the zone spelled GMT, as RSS readers expect.
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

var ampersandReplacer = strings.NewReplacer("&", "&amp;")

// escapeAmpersands is the only escaping applied to URL attributes.
// Quotes and angle brackets pass through unchanged.
func escapeAmpersands(s string) string {
	return ampersandReplacer.Replace(s)
}

// cdata wraps free text in a CDATA section. Text containing "]]>" ends the
// section early and breaks the document. Carriage returns are written as is;
// parsers normalise them to "\n" on read.
func cdata(s string) string {
	return "<![CDATA[" + s + "]]>"
}

// sanitize drops characters XML 1.0 does not allow anywhere in a document and
// replaces invalid UTF-8, so odd metadata cannot make the feed unparsable.
func sanitize(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}

	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}

		return -1
	}, s)
}

func isXMLChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

// formatPubDate renders epoch seconds as a UTC RFC 1123 date, or "" when absent.
func formatPubDate(ts *int64) string {
	if ts == nil {
		return ""
	}

	return time.Unix(*ts, 0).UTC().Format(pubDateLayout)
}

// formatDuration renders seconds the way Python prints a float: integral values
// keep a trailing ".0" and very large or small values use exponent notation.
func formatDuration(d *float64) string {
	if d == nil {
		return ""
	}

	v := *d

	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if abs := math.Abs(v); abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)

	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
