package feed

import (
	"bufio"
	"encoding/xml"
	"io"

	"github.com/nDmitry/podfeed/internal/entity"
)

const (
	itunesNamespace = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	atomNamespace   = "http://www.w3.org/2005/Atom"
	enclosureType   = "audio/mpeg"
)

// Serialize writes the channel as an RSS 2.0 podcast feed with the itunes and atom
// namespaces. Elements are written in a fixed order, one <item> per entry in
// channel order. Absent values render as empty elements or attributes.
func Serialize(channel *entity.Channel, w io.Writer) error {
	pw := &podcastWriter{w: bufio.NewWriter(w)}

	pw.channel(channel)

	if pw.err == nil {
		pw.err = pw.w.Flush()
	}

	if pw.err != nil {
		return &entity.IOError{Op: "write podcast feed", Err: pw.err}
	}

	return nil
}

// podcastWriter keeps the first write error and turns later writes into no-ops.
type podcastWriter struct {
	w   *bufio.Writer
	err error
}

func (pw *podcastWriter) channel(c *entity.Channel) {
	pw.write(xml.Header)
	pw.write(`<rss xmlns:itunes="` + itunesNamespace + `" xmlns:atom="` + atomNamespace + `" version="2.0">` + "\n")
	pw.write("  <channel>\n")
	pw.write("    <title>" + cdata(sanitize(c.Title)) + "</title>\n")
	pw.write("    <description>" + cdata(sanitize(entity.Deref(c.Description))) + "</description>\n")
	pw.write("    <link>" + escapeAmpersands(sanitize(c.URL)) + "</link>\n")
	pw.write(`    <itunes:image href="` + escapeAmpersands(sanitize(entity.Deref(c.AvatarURL))) + `"/>` + "\n")

	for i := range c.Entries {
		pw.item(&c.Entries[i])
	}

	pw.write("  </channel>\n")
	pw.write("</rss>\n")
}

func (pw *podcastWriter) item(e *entity.ChannelEntry) {
	cover, _ := e.LargestCover()

	pw.write("    <item>\n")
	pw.write("      <guid>")
	pw.text(e.ID)
	pw.write("</guid>\n")
	pw.write("      <title>" + cdata(sanitize(e.Title)) + "</title>\n")
	pw.write("      <description>" + cdata(sanitize(entity.Deref(e.Description))) + "</description>\n")
	pw.write("      <pubDate>" + formatPubDate(e.Timestamp) + "</pubDate>\n")
	pw.write("      <itunes:duration>" + formatDuration(e.Duration) + "</itunes:duration>\n")
	pw.write(`      <itunes:image href="` + escapeAmpersands(sanitize(cover.URL)) + `"/>` + "\n")
	pw.write(`      <enclosure url="` + escapeAmpersands(sanitize(entity.Deref(e.AudioURL))) + `" type="` + enclosureType + `"/>` + "\n")
	pw.write("    </item>\n")
}

func (pw *podcastWriter) write(s string) {
	if pw.err != nil {
		return
	}

	_, pw.err = pw.w.WriteString(s)
}

// text writes an entity-escaped text node.
func (pw *podcastWriter) text(s string) {
	if pw.err != nil {
		return
	}

	pw.err = xml.EscapeText(pw.w, []byte(sanitize(s)))
}
