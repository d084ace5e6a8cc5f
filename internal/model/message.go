package model

import "time"

// MediaKind classifies a referenced media file by extension.
type MediaKind string

const (
	KindImage   MediaKind = "image"
	KindVideo   MediaKind = "video"
	KindAudio   MediaKind = "audio"
	KindUnknown MediaKind = "unknown"
)

// Resolution tracks whether a media reference was matched to a file on disk.
type Resolution string

const (
	Unresolved Resolution = "unresolved"
	Resolved   Resolution = "resolved"
	Missing    Resolution = "missing"
)

// MediaReference is a media attachment mentioned in a transcript message.
type MediaReference struct {
	Filename   string
	Kind       MediaKind
	Resolution Resolution
	Media      *ResolvedMedia // set once Resolution == Resolved
}

// Message is a single parsed transcript message. The Ordinal is the
// message's position in the original transcript and defines output order.
type Message struct {
	Ordinal   int
	Timestamp time.Time
	Sender    string // empty for system messages
	Text      string
	Media     *MediaReference // nil for plain text messages
}

// HasMedia reports whether the message carries an attachment reference.
func (m *Message) HasMedia() bool {
	return m.Media != nil
}
