package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestPrettyHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	logger = logger.With(String(FieldComponent, "assetdb"))
	logger.Info("stored asset", String(FieldAssetKey, "general-image-2"), Int("bytes", 512))

	line := buf.String()
	if !strings.Contains(line, "INFO assetdb: stored asset") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "asset_key=general-image-2") {
		t.Fatalf("expected asset_key attribute, got %q", line)
	}
	if !strings.Contains(line, "bytes=512") {
		t.Fatalf("expected bytes attribute, got %q", line)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	logger.Warn("skipping folder", String(FieldFolder, "my recipe"))

	if !strings.Contains(buf.String(), `folder="my recipe"`) {
		t.Fatalf("expected quoted folder value, got %q", buf.String())
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	logger.Info("should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below level, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should not be enabled")
	}
	logger.Error("ignored", Duration("elapsed", time.Second))
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	WarnWithContext(logger, "asset missing", "asset_missing")

	line := buf.String()
	if !strings.Contains(line, "event_type=asset_missing") {
		t.Fatalf("expected injected event_type, got %q", line)
	}
	if !strings.Contains(line, "error_hint=") {
		t.Fatalf("expected injected error_hint, got %q", line)
	}
}
