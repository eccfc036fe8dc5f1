package caption

import (
	"errors"
	"fmt"
)

// Sentinel errors for rejected captions and documents.
var (
	ErrMissingField  = errors.New("caption: all fields are required")
	ErrInvalidTiming = errors.New("caption: start time must be less than end time")
	ErrOverlap       = errors.New("caption: time range overlaps an existing caption")
	ErrParse         = errors.New("caption: malformed caption document")
)

// machine readable rejection code
type Reason string

const (
	MissingField     Reason = "missing_field"
	InvalidTiming    Reason = "invalid_timing"
	Overlap          Reason = "overlap"
	ParseError       Reason = "parse_error"
	CompilationError Reason = "compilation_error"
)

// Error carries the reason and the offending position alongside a sentinel.
type Error struct {
	Reason  Reason
	Index   int // 1-based position, 0 when not tied to an entry
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Index > 0:
		return fmt.Sprintf("%v: entry %d: %s", e.Err, e.Index, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%v: %s", e.Err, e.Message)
	case e.Index > 0:
		return fmt.Sprintf("%v: entry %d", e.Err, e.Index)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ReasonOf maps an error from this package to its Reason. Errors that carry
// no known sentinel return the empty Reason.
func ReasonOf(err error) Reason {
	var ce *Error
	if errors.As(err, &ce) && ce.Reason != "" {
		return ce.Reason
	}
	switch {
	case errors.Is(err, ErrMissingField):
		return MissingField
	case errors.Is(err, ErrInvalidTiming):
		return InvalidTiming
	case errors.Is(err, ErrOverlap):
		return Overlap
	case errors.Is(err, ErrParse):
		return ParseError
	}
	return ""
}

func reject(reason Reason, sentinel error, index int, msg string) error {
	return &Error{Reason: reason, Index: index, Message: msg, Err: sentinel}
}
