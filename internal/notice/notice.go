package notice

import (
	"fmt"
	"sync"
)

// kind of event surfaced to the user
type Code string

const (
	CaptionAdded      Code = "caption_added"
	FieldsRequired    Code = "fields_required"
	InvalidTiming     Code = "invalid_timing"
	Overlap           Code = "overlap"
	ImportSucceeded   Code = "import_succeeded"
	ImportMalformed   Code = "import_malformed"
	CueSkipped        Code = "cue_skipped"
	CompilationFailed Code = "compilation_failed"
)

// Notice is one fire-and-forget event. Index is the 1-based caption position
// for CueSkipped and Overlap, zero otherwise.
type Notice struct {
	Code  Code   `json:"code"`
	Index int    `json:"index,omitempty"`
	Err   error  `json:"-"`
	Text  string `json:"message"`
}

func (n Notice) Success() bool {
	return n.Code == CaptionAdded || n.Code == ImportSucceeded
}

// Message returns the default English text for a notice.
func Message(n Notice) string {
	switch n.Code {
	case CaptionAdded:
		return "Caption added successfully!"
	case FieldsRequired:
		return "Please fill all fields!"
	case InvalidTiming:
		return "Start time must be less than end time!"
	case Overlap:
		return "This time range overlaps with an existing caption!"
	case ImportSucceeded:
		return "Captions uploaded successfully!"
	case ImportMalformed:
		return "Invalid file format! Please upload a valid JSON file."
	case CueSkipped:
		return fmt.Sprintf("Caption %d has invalid timing!", n.Index)
	case CompilationFailed:
		return "Failed to generate captions."
	default:
		return string(n.Code)
	}
}

// receives notices; implementations must not block
type Sink interface {
	Notify(n Notice)
}

type SinkFunc func(n Notice)

func (f SinkFunc) Notify(n Notice) {
	f(n)
}

// sink that drops every notice
var Discard Sink = SinkFunc(func(Notice) {})

type multi []Sink

func (m multi) Notify(n Notice) {
	for _, s := range m {
		s.Notify(n)
	}
}

// fans a notice out to every sink in order
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

// Recorder keeps notices until they are drained.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	if n.Text == "" {
		n.Text = Message(n)
	}
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// returns the recorded notices and forgets them
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	return out
}

