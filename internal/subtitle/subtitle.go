package subtitle

import (
	"time"

	"github.com/mgpai22/captionit/internal/caption"
)

const (
	// WebVTT file extension
	Extension = ".vtt"
	// content type for serving compiled tracks
	MIMEType = "text/vtt; charset=utf-8"

	header = "WEBVTT\n\n"
)

// represents single emitted cue block
type Cue struct {
	Index     int // 1-based position in the source captions
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// represents caption left out of the document
type Skip struct {
	Index  int            `json:"index"`
	Reason caption.Reason `json:"reason"`
}

// represents complete compiled track
type Track struct {
	Document string
	Cues     []Cue
	Skipped  []Skip
}

// interface for persisting compiled tracks
type Writer interface {
	Write(track *Track, path string) error
}
