package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		verbose bool
		debug   bool
	}{
		{false, false},
		{true, true},
	}

	for _, tt := range tests {
		l := NewLogger(tt.verbose)
		got := l.Desugar().Core().Enabled(zapcore.DebugLevel)
		if got != tt.debug {
			t.Errorf("NewLogger(%v) debug enabled = %v, want %v", tt.verbose, got, tt.debug)
		}
		if !l.Desugar().Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("NewLogger(%v) should log at info", tt.verbose)
		}
	}
}

func TestNewWrapsCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := New(zap.New(core))

	l.Infow("Track compiled", "cues", 2)
	l.Debugw("dropped")
	l.Sync()

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "Track compiled" {
		t.Errorf("unexpected message %q", entries[0].Message)
	}
	if entries[0].ContextMap()["cues"] != int64(2) {
		t.Errorf("unexpected fields %v", entries[0].ContextMap())
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Infow("ignored")
	l.Sync()
}
