package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WebVTT format
type VTTWriter struct{}

func NewWriter() Writer {
	return &VTTWriter{}
}

// writes the compiled track to a VTT file
func (w *VTTWriter) Write(track *Track, path string) error {
	if track == nil {
		return fmt.Errorf("%w: nil track", ErrCompilation)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(track.Document), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// output path next to the caption document, with the VTT extension
func TrackPathFor(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + Extension
}
