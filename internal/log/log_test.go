package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Info("test message", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "test message") {
		t.Errorf("expected 'test message' in output, got %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected 'key=value' in output, got %q", out)
	}
}

func TestNew_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelFor(false))
	logger.Info("connecting", "host", "example.com")
	logger.Debug("dialing")
	if buf.Len() != 0 {
		t.Errorf("expected no output below WARN, got %q", buf.String())
	}

	logger.Warn("warning")
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected WARN level in output, got %q", buf.String())
	}
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelFor(true))
	logger.Debug("dialing", "addr", "example.com:22")
	if !strings.Contains(buf.String(), "level=DEBUG") {
		t.Errorf("expected DEBUG level in output, got %q", buf.String())
	}
}
