package caption

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Store holds the captions of one editing session in insertion order.
// It is not safe for concurrent use; callers serialize mutations.
type Store struct {
	entries   []Entry
	observers []func([]Entry)
}

func NewStore() *Store {
	return &Store{}
}

// registers fn to run after every mutation with a snapshot of the entries
func (s *Store) OnChange(fn func([]Entry)) {
	s.observers = append(s.observers, fn)
}

// Insert parses raw field values and appends the caption when it is complete,
// well timed, and clear of every existing caption.
func (s *Store) Insert(text, start, end string) (Entry, error) {
	if text == "" {
		return Entry{}, reject(MissingField, ErrMissingField, 0, "text is empty")
	}
	startTime, ok := parseSeconds(start)
	if !ok {
		return Entry{}, reject(MissingField, ErrMissingField, 0, "start time is empty or not a number")
	}
	endTime, ok := parseSeconds(end)
	if !ok {
		return Entry{}, reject(MissingField, ErrMissingField, 0, "end time is empty or not a number")
	}

	return s.InsertEntry(Entry{Text: text, StartTime: startTime, EndTime: endTime})
}

// InsertEntry applies the timing and overlap checks of Insert to an already
// parsed entry.
func (s *Store) InsertEntry(e Entry) (Entry, error) {
	if e.Text == "" {
		return Entry{}, reject(MissingField, ErrMissingField, 0, "text is empty")
	}
	if e.StartTime < 0 {
		return Entry{}, reject(InvalidTiming, ErrInvalidTiming, 0, "start time is negative")
	}
	if !e.Valid() {
		return Entry{}, reject(InvalidTiming, ErrInvalidTiming, 0, "")
	}
	for i, existing := range s.entries {
		if Overlaps(e, existing) {
			return Entry{}, reject(Overlap, ErrOverlap, i+1, "")
		}
	}

	s.entries = append(s.entries, e)
	s.notify()
	return e, nil
}

// ReplaceAll swaps in a new caption set without validating it.
func (s *Store) ReplaceAll(entries []Entry) {
	s.entries = append([]Entry(nil), entries...)
	s.notify()
}

// Import replaces the caption set with the document read from r. A malformed
// document leaves the store untouched.
func (s *Store) Import(r io.Reader) error {
	entries, err := Decode(r)
	if err != nil {
		return err
	}
	s.ReplaceAll(entries)
	return nil
}

func (s *Store) Clear() {
	s.entries = nil
	s.notify()
}

// copy of the current entries
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) notify() {
	for _, fn := range s.observers {
		fn(s.Entries())
	}
}

func parseSeconds(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
