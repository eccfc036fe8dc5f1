package subtitle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asticode/go-astisub"
)

var ErrCompilation = errors.New("subtitle: compilation failed")

const timingArrow = "-->"

// Verify checks that the compiled document reads back as the cues it was
// built from. Caption text that would split or forge a cue block fails here.
func Verify(t *Track) error {
	if t == nil {
		return fmt.Errorf("%w: nil track", ErrCompilation)
	}

	for _, cue := range t.Cues {
		if err := CheckText(cue.Text); err != nil {
			return fmt.Errorf("cue %d: %w", cue.Index, err)
		}
	}

	subs, err := astisub.ReadFromWebVTT(strings.NewReader(t.Document))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCompilation, err)
	}
	if len(subs.Items) != len(t.Cues) {
		return fmt.Errorf(
			"%w: document holds %d cues, expected %d",
			ErrCompilation,
			len(subs.Items),
			len(t.Cues),
		)
	}
	for i, item := range subs.Items {
		cue := t.Cues[i]
		if item.StartAt != cue.StartTime || item.EndAt != cue.EndTime {
			return fmt.Errorf(
				"%w: cue %d reads back as %s --> %s",
				ErrCompilation,
				cue.Index,
				formatVTTTime(item.StartAt),
				formatVTTTime(item.EndAt),
			)
		}
	}

	return nil
}

// CheckText reports whether text can sit inside one cue block: a blank line
// would end the block early and a timing arrow would start a new one.
func CheckText(text string) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.Contains(text, "\n\n") {
		return fmt.Errorf("%w: text contains a blank line", ErrCompilation)
	}
	if strings.Contains(text, timingArrow) {
		return fmt.Errorf("%w: text contains %q", ErrCompilation, timingArrow)
	}
	return nil
}
