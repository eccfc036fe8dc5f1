package notice

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgpai22/captionit/internal/logging"
)

// LogSink writes notices to the structured log.
type LogSink struct {
	Logger *logging.Logger
}

func (s LogSink) Notify(n Notice) {
	kv := []interface{}{"code", n.Code}
	if n.Index > 0 {
		kv = append(kv, "index", n.Index)
	}
	if n.Err != nil {
		kv = append(kv, "error", n.Err)
	}

	if n.Success() {
		s.Logger.Infow(Message(n), kv...)
		return
	}
	s.Logger.Warnw(Message(n), kv...)
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#06D6A0")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF476F")).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

// TerminalSink prints one styled line per notice.
type TerminalSink struct {
	Out io.Writer
	// include the underlying error under the message
	Detail bool
}

func (s TerminalSink) Notify(n Notice) {
	mark, style := "✗", errorStyle
	if n.Success() {
		mark, style = "✓", successStyle
	}
	fmt.Fprintln(s.Out, style.Render(mark+" "+Message(n)))
	if s.Detail && n.Err != nil {
		fmt.Fprintln(s.Out, detailStyle.Render("  "+n.Err.Error()))
	}
}
