package caption

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// wire shape of one record in a caption import document
type record struct {
	Text      *string  `json:"text"`
	StartTime *float64 `json:"startTime"`
	EndTime   *float64 `json:"endTime"`
}

// Decode reads a caption import document: a JSON array of objects carrying
// exactly text, startTime and endTime. Any other shape wraps ErrParse.
// Timing and overlap are not checked.
func Decode(r io.Reader) ([]Entry, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var records []*record
	if err := dec.Decode(&records); err != nil {
		return nil, reject(ParseError, ErrParse, 0, err.Error())
	}
	if records == nil {
		return nil, reject(ParseError, ErrParse, 0, "document is not an array")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, reject(ParseError, ErrParse, 0, "unexpected data after array")
	}

	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		if rec == nil {
			return nil, reject(ParseError, ErrParse, i+1, "record is null")
		}
		switch {
		case rec.Text == nil:
			return nil, reject(ParseError, ErrParse, i+1, "missing text")
		case rec.StartTime == nil:
			return nil, reject(ParseError, ErrParse, i+1, "missing startTime")
		case rec.EndTime == nil:
			return nil, reject(ParseError, ErrParse, i+1, "missing endTime")
		}
		entries = append(entries, Entry{
			Text:      *rec.Text,
			StartTime: *rec.StartTime,
			EndTime:   *rec.EndTime,
		})
	}

	return entries, nil
}

// writes entries as a caption import document
func Encode(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode captions: %w", err)
	}
	return nil
}
