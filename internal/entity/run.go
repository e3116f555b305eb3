package entity

import "time"

// Run is one successful feed generation kept in the history.
type Run struct {
	ID           string
	ChannelID    string
	ChannelTitle string
	Format       string
	Target       string
	Entries      int
	MissingAudio int
	// Size of the written document in bytes.
	Bytes     int64
	CreatedAt time.Time
}
