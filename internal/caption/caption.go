package caption

// single user-authored caption cue, times in seconds
type Entry struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}

// reports whether the cue has a usable time range
func (e Entry) Valid() bool {
	return e.StartTime < e.EndTime
}

// Overlaps reports whether candidate a collides with existing entry b.
//
// The check is the union of three clauses: a starts inside b, a ends inside b,
// or a covers b. A cue starting exactly where b ends does not collide, and
// neither does one ending exactly where b starts.
func Overlaps(a, b Entry) bool {
	return (a.StartTime >= b.StartTime && a.StartTime < b.EndTime) ||
		(a.EndTime > b.StartTime && a.EndTime <= b.EndTime) ||
		(a.StartTime <= b.StartTime && a.EndTime >= b.EndTime)
}
