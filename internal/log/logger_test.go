package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/config"
)

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")

	logger.Slog().Info("articles saved", "count", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "articles saved" {
		t.Errorf("unexpected msg: %v", record["msg"])
	}
	if record["count"] != float64(3) {
		t.Errorf("unexpected count: %v", record["count"])
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "WARN")

	logger.Slog().Info("suppressed")
	logger.Slog().Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info record must be filtered at WARN level")
	}
	if !strings.Contains(out, "emitted") {
		t.Error("warn record missing")
	}
}

func TestTerminalHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatPretty, "DEBUG")

	logger.Slog().Info("fetch complete", "chunks", 4, "source", "feed api")

	out := buf.String()
	if !strings.Contains(out, "INF") {
		t.Errorf("level label missing: %q", out)
	}
	if !strings.Contains(out, "fetch complete") {
		t.Errorf("message missing: %q", out)
	}
	if !strings.Contains(out, "chunks=") {
		t.Errorf("attr missing: %q", out)
	}
	if !strings.Contains(out, `"feed api"`) {
		t.Errorf("values with spaces must be quoted: %q", out)
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO").With("component", "pipeline")

	logger.Slog().Info("run started")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["component"] != "pipeline" {
		t.Errorf("bound attr missing: %v", record)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"WARNING": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"INFO":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}
