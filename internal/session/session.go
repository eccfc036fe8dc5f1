package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/mgpai22/captionit/internal/caption"
	"github.com/mgpai22/captionit/internal/logging"
	"github.com/mgpai22/captionit/internal/notice"
	"github.com/mgpai22/captionit/internal/subtitle"
	"github.com/mgpai22/captionit/internal/track"
)

var ErrClosed = errors.New("session: closed")

// lifecycle of the attached track
type State int

const (
	StateEmpty State = iota
	StateCompiled
)

func (s State) String() string {
	if s == StateCompiled {
		return "compiled"
	}
	return "empty"
}

// Session is one editing session: a caption store whose every change is
// recompiled into a track handle. It has a single mutator; callers that
// share it across goroutines must serialize calls.
type Session struct {
	store    *caption.Store
	registry *track.Registry
	sink     notice.Sink
	logger   *logging.Logger

	handle  *track.Handle
	track   *subtitle.Track
	pending []notice.Notice
	closed  bool
}

func New(
	registry *track.Registry,
	sink notice.Sink,
	logger *logging.Logger,
) *Session {
	if sink == nil {
		sink = notice.Discard
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Session{
		store:    caption.NewStore(),
		registry: registry,
		sink:     sink,
		logger:   logger,
	}
	s.store.OnChange(func(entries []caption.Entry) {
		// failures reach the caller as a CompilationFailed notice
		_ = s.compile(entries)
	})
	return s
}

// Add validates raw form values and appends the caption. Exactly one notice
// describes the outcome.
func (s *Session) Add(text, start, end string) (caption.Entry, error) {
	if s.closed {
		return caption.Entry{}, ErrClosed
	}

	entry, err := s.store.Insert(text, start, end)
	if err != nil {
		s.notify(rejection(err))
		s.logger.Debugw("Caption rejected",
			"reason", caption.ReasonOf(err),
			"error", err,
		)
		return caption.Entry{}, err
	}

	s.notify(notice.Notice{Code: notice.CaptionAdded})
	s.flush()
	return entry, nil
}

// Import replaces every caption with the document read from r. Entries are
// not validated; invalid timings surface as skipped cues.
func (s *Session) Import(r io.Reader) error {
	if s.closed {
		return ErrClosed
	}

	if err := s.store.Import(r); err != nil {
		s.notify(notice.Notice{Code: notice.ImportMalformed, Err: err})
		s.logger.Warnw("Caption import rejected", "error", err)
		return err
	}

	s.logger.Infow("Captions imported", "entries", s.store.Len())
	s.notify(notice.Notice{Code: notice.ImportSucceeded})
	s.flush()
	return nil
}

// replaces every caption without validation
func (s *Session) Replace(entries []caption.Entry) error {
	if s.closed {
		return ErrClosed
	}
	s.store.ReplaceAll(entries)
	s.flush()
	return nil
}

func (s *Session) Clear() error {
	if s.closed {
		return ErrClosed
	}
	s.store.Clear()
	s.flush()
	return nil
}

// Recompile rebuilds the track from the current captions.
func (s *Session) Recompile() error {
	if s.closed {
		return ErrClosed
	}
	err := s.compile(s.store.Entries())
	s.flush()
	return err
}

func (s *Session) Entries() []caption.Entry {
	return s.store.Entries()
}

func (s *Session) State() State {
	if s.track == nil {
		return StateEmpty
	}
	return StateCompiled
}

// last successfully compiled track, nil while Empty
func (s *Session) Track() *subtitle.Track {
	return s.track
}

// URL of the attached track, empty while Empty or after Close
func (s *Session) TrackURL() string {
	if s.handle == nil {
		return ""
	}
	return s.handle.URL()
}

// Close releases the attached track. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.handle == nil {
		return nil
	}
	err := s.handle.Release()
	s.handle = nil
	return err
}

// compile builds a new handle for entries, attaching it only once it is
// ready and releasing the previous one afterwards.
func (s *Session) compile(entries []caption.Entry) error {
	t := subtitle.Compile(entries)
	for _, skip := range t.Skipped {
		s.pending = append(s.pending, notice.Notice{
			Code:  notice.CueSkipped,
			Index: skip.Index,
		})
	}

	if err := subtitle.Verify(t); err != nil {
		return s.fail(err)
	}

	h, err := s.registry.Create(t.Document)
	if err != nil {
		return s.fail(fmt.Errorf("%w: %v", subtitle.ErrCompilation, err))
	}

	old := s.handle
	s.handle = h
	s.track = t
	if old != nil {
		if err := old.Release(); err != nil {
			s.logger.Warnw("Failed to release previous track",
				"url", old.URL(),
				"error", err,
			)
		}
	}

	s.logger.Debugw("Track compiled",
		"url", h.URL(),
		"cues", len(t.Cues),
		"skipped", len(t.Skipped),
	)
	return nil
}

func (s *Session) fail(err error) error {
	s.pending = append(s.pending, notice.Notice{
		Code: notice.CompilationFailed,
		Err:  err,
	})
	s.logger.Warnw("Track compilation failed",
		"error", err,
		"attached", s.TrackURL(),
	)
	return err
}

func (s *Session) notify(n notice.Notice) {
	s.sink.Notify(n)
}

func (s *Session) flush() {
	pending := s.pending
	s.pending = nil
	for _, n := range pending {
		s.notify(n)
	}
}

func rejection(err error) notice.Notice {
	n := notice.Notice{Err: err}
	switch caption.ReasonOf(err) {
	case caption.InvalidTiming:
		n.Code = notice.InvalidTiming
	case caption.Overlap:
		n.Code = notice.Overlap
		var ce *caption.Error
		if errors.As(err, &ce) {
			n.Index = ce.Index
		}
	default:
		n.Code = notice.FieldsRequired
	}
	return n
}
