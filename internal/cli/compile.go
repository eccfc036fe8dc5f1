package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/captionit/internal/caption"
	"github.com/mgpai22/captionit/internal/notice"
	"github.com/mgpai22/captionit/internal/subtitle"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [captions_file]",
	Short: "Compile a caption document into a WebVTT track",
	Long: `Compile a JSON caption document into a WebVTT subtitle track.

Entries are not validated against each other; an entry whose start time
is not before its end time is skipped and reported. Cues keep the 1-based
position of their caption in the document.

Examples:
  captionit compile captions.json
  captionit compile captions.json -o out/track.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")

	entries, err := readCaptions(inputPath)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = subtitle.TrackPathFor(inputPath)
	}

	logger.Infow("Compiling captions",
		"input", inputPath,
		"output", outputPath,
		"entries", len(entries),
	)

	track := subtitle.Compile(entries)

	sink := notice.TerminalSink{Out: cmd.ErrOrStderr(), Detail: verbose}
	for _, skip := range track.Skipped {
		sink.Notify(notice.Notice{Code: notice.CueSkipped, Index: skip.Index})
	}

	if err := subtitle.Verify(track); err != nil {
		sink.Notify(notice.Notice{Code: notice.CompilationFailed, Err: err})
		return err
	}

	if err := subtitle.NewWriter().Write(track, outputPath); err != nil {
		return fmt.Errorf("failed to write track: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Track compiled successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Cues: %d\n", len(track.Cues))
	if len(track.Skipped) > 0 {
		fmt.Fprintf(out, "  Skipped: %d\n", len(track.Skipped))
	}

	return nil
}

// reads a caption document from disk
func readCaptions(path string) ([]caption.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("caption file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open caption file: %w", err)
	}
	defer f.Close()

	entries, err := caption.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse caption file: %w", err)
	}
	return entries, nil
}

// writes a caption document to disk, creating parent directories
func writeCaptions(path string, entries []caption.Entry) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := caption.Encode(f, entries); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write captions: %w", err)
	}
	return f.Close()
}
