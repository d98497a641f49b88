package ffprobe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const sampleReport = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "duration": "600.2"},
    {"index": 1, "codec_type": "audio", "codec_name": "aac", "channels": 2, "duration": "600.1"},
    {"index": 2, "codec_type": "audio", "codec_name": "ac3", "channels": 6},
    {"index": 3, "codec_type": "subtitle", "codec_name": "subrip"}
  ],
  "format": {"filename": "react.mkv", "duration": "600.25", "size": "1000", "format_name": "matroska,webm"}
}`

func TestSummary(t *testing.T) {
	result, err := Parse([]byte(sampleReport))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	info := result.Summary()
	if info.Duration != 600.25 {
		t.Fatalf("unexpected duration %v", info.Duration)
	}
	if info.Video != 1 || info.Audio != 2 || info.Subtitles != 1 {
		t.Fatalf("unexpected stream counts %+v", info)
	}
	if info.Width != 1920 || info.Height != 1080 || info.Format != "matroska,webm" {
		t.Fatalf("unexpected video details %+v", info)
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", Duration: "12.5"}, {CodecType: "video", Duration: "bad"}, {CodecType: "video", Duration: "14"}},
		Format:  Format{Duration: "N/A"},
	}
	if got := result.DurationSeconds(); got != 14 {
		t.Fatalf("expected longest stream duration 14, got %v", got)
	}
	if got := (Result{}).DurationSeconds(); got != 0 {
		t.Fatalf("expected unknown duration 0, got %v", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInspectEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "", "  "); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestInspectRunsBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub requires a POSIX shell")
	}
	dir := t.TempDir()
	report := filepath.Join(dir, "report.json")
	if err := os.WriteFile(report, []byte(sampleReport), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat '" + report + "'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, filepath.Join(dir, "react.mkv"))
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if result.StreamCount("audio") != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.StreamCount("audio"))
	}
}

func TestInspectMissingBinary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-ffprobe")
	if _, err := Inspect(context.Background(), missing, "react.mkv"); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
