package media

import (
	"path/filepath"
	"strings"
	"time"
)

// Kind discriminates the two item variants.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// LatLon is a GPS position in signed decimal degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Item is one accepted photo or video with a resolved capture timestamp.
// Items are immutable once assembled by the walker.
type Item struct {
	Kind Kind

	// SourcePath is the file as discovered; ProcessingPath is the file
	// actually inspected, which differs only when a format conversion
	// produced a decodable sibling.
	SourcePath     string
	ProcessingPath string

	// Timestamp is never zero: embedded metadata when parseable,
	// filesystem modification time otherwise.
	Timestamp time.Time

	// Location is set only for photos carrying valid GPS tags.
	Location *LatLon

	// Duration is set only for videos.
	Duration time.Duration

	// Width and Height are zero when not cheaply obtainable.
	Width  int
	Height int
}

// Segment is a chronologically contiguous, non-empty run of items.
type Segment []*Item

var photoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
	".heif": true,
}

var videoExts = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
}

// legacy image containers need conversion before inspection
var legacyExts = map[string]bool{
	".heic": true,
	".heif": true,
}

// classify maps a filename to an item kind by extension. The boolean is
// false for unsupported extensions, which are ignored without error.
func classify(name string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case photoExts[ext]:
		return KindPhoto, true
	case videoExts[ext]:
		return KindVideo, true
	default:
		return "", false
	}
}
