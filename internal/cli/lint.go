package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/mgpai22/captionit/internal/caption"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint [captions_file]",
	Short: "Check a caption document against the authoring rules",
	Long: `Replay every entry of a caption document through validated insertion,
in document order, and report the entries that would be rejected.

An entry is rejected when its text is empty, its start time is not before
its end time, or its range overlaps an entry accepted before it.

Examples:
  captionit lint captions.json`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

// single rejected entry; positions are 1-based document positions
type lintProblem struct {
	Position int
	Reason   caption.Reason
	// accepted entry it overlaps, zero for other reasons
	Conflict int
	Err      error
}

func (p lintProblem) String() string {
	switch p.Reason {
	case caption.Overlap:
		return fmt.Sprintf("caption %d: overlaps caption %d", p.Position, p.Conflict)
	case caption.InvalidTiming:
		return fmt.Sprintf("caption %d: start time must be less than end time", p.Position)
	case caption.MissingField:
		return fmt.Sprintf("caption %d: text is required", p.Position)
	default:
		return fmt.Sprintf("caption %d: %v", p.Position, p.Err)
	}
}

// lintCaptions inserts entries into a fresh store and collects rejections.
func lintCaptions(entries []caption.Entry) []lintProblem {
	store := caption.NewStore()
	// store position -> document position
	var accepted []int
	var problems []lintProblem

	for i, entry := range entries {
		if _, err := store.InsertEntry(entry); err != nil {
			p := lintProblem{Position: i + 1, Reason: caption.ReasonOf(err), Err: err}
			var ce *caption.Error
			if errors.As(err, &ce) && ce.Index > 0 && ce.Index <= len(accepted) {
				p.Conflict = accepted[ce.Index-1]
			}
			problems = append(problems, p)
			continue
		}
		accepted = append(accepted, i+1)
	}
	return problems
}

func runLint(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	entries, err := readCaptions(inputPath)
	if err != nil {
		return err
	}

	problems := lintCaptions(entries)
	logger.Debugw("Linted captions",
		"input", inputPath,
		"entries", len(entries),
		"problems", len(problems),
	)

	return reportLint(cmd.OutOrStdout(), len(entries), problems)
}

func reportLint(out io.Writer, total int, problems []lintProblem) error {
	for _, p := range problems {
		fmt.Fprintln(out, p.String())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d of %d captions would be rejected", len(problems), total)
	}
	fmt.Fprintf(out, "All %d captions are valid\n", total)
	return nil
}
