package subtitle

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mgpai22/captionit/internal/caption"
)

// Compile renders entries as a WebVTT document. Entries whose start is not
// before their end are left out and reported in Skipped. Cue identifiers are
// the 1-based input positions, so a skipped entry leaves a gap in numbering.
func Compile(entries []caption.Entry) *Track {
	var sb strings.Builder
	sb.WriteString(header)

	track := &Track{}
	for i, entry := range entries {
		index := i + 1
		if !entry.Valid() {
			track.Skipped = append(track.Skipped, Skip{
				Index:  index,
				Reason: caption.InvalidTiming,
			})
			continue
		}

		cue := Cue{
			Index:     index,
			StartTime: toDuration(entry.StartTime),
			EndTime:   toDuration(entry.EndTime),
			Text:      entry.Text,
		}
		track.Cues = append(track.Cues, cue)

		// cue identifier
		sb.WriteString(fmt.Sprintf("%d\n", cue.Index))

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(cue.StartTime),
			formatVTTTime(cue.EndTime)))

		// text
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	track.Document = sb.String()
	return track
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm.
func FormatTimestamp(seconds float64) string {
	return formatVTTTime(toDuration(seconds))
}

// largest millisecond count a time.Duration can hold
const maxMillis = float64(math.MaxInt64 / int64(time.Millisecond))

// truncates to the whole millisecond, clamping into the Duration range
func toDuration(seconds float64) time.Duration {
	ms := math.Trunc(seconds * 1000)
	switch {
	case ms < 0 || math.IsNaN(ms):
		return 0
	case ms > maxMillis:
		ms = maxMillis
	}
	return time.Duration(ms) * time.Millisecond
}

func formatVTTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}
