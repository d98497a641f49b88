package main

import (
	"strings"
	"testing"
)

func TestSimulateCorrectsSkew(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"simulate", "--duration", "60s", "--skew", "1.05", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	result := decodeJSON[simulationResult](t, out)
	if result.Summary.Ticks != 200 {
		t.Fatalf("expected 200 ticks at a 300ms interval, got %d", result.Summary.Ticks)
	}
	if result.Summary.Corrections == 0 {
		t.Fatalf("expected skew to trigger corrections, got %+v", result.Summary)
	}
	if result.Summary.Delay != 2 {
		t.Fatalf("expected delay 2, got %v", result.Summary.Delay)
	}
	if result.Summary.MaxDrift > 1 {
		t.Fatalf("drift should stay bounded, got %v", result.Summary.MaxDrift)
	}
	if result.Summary.Saved {
		t.Fatal("nothing should be saved without --save")
	}
}

func TestSimulateAbsorbsSmallSkewWithRate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"simulate", "--duration", "60s", "--skew", "1.02", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	result := decodeJSON[simulationResult](t, out)
	if result.Summary.Corrections != 0 {
		t.Fatalf("expected rate correction to avoid seeks, got %+v", result.Summary)
	}
	if result.Summary.RateChanges == 0 || result.Summary.FinalRate >= 1 {
		t.Fatalf("expected the react stream to be slowed, got %+v", result.Summary)
	}
	if result.Summary.MaxDrift >= 0.3 {
		t.Fatalf("drift should stay inside the seek threshold, got %v", result.Summary.MaxDrift)
	}
}

func TestSimulateBufferingAndSeek(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{
		"simulate", "--duration", "20s", "--skew", "1",
		"--buffer-at", "5s", "--buffer-for", "2s",
		"--seek-at", "12s", "--seek-to", "1:00",
	}, env.configPath)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	requireContains(t, out, "paused for buffering")
	requireContains(t, out, "resumed after buffering")
	requireContains(t, out, "seek base to 1:00")
	requireContains(t, out, "Corrections")
}

func TestSimulateSaveRequiresMedia(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"simulate", "--duration", "1s", "--save"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--base-media") {
		t.Fatalf("expected missing media error, got %v", err)
	}
}

func TestSimulateSaveRecordsProgress(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{
		"simulate", "--duration", "15s", "--delay", "3", "--base-start", "1:00",
		"--save",
		"--base-media", "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"--react-media", "https://youtu.be/aaaaaaaaaaa",
	}, env.configPath)
	if err != nil {
		t.Fatalf("simulate --save: %v", err)
	}

	out, _, err := runCLI(t, []string{"progress", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("progress list: %v", err)
	}
	requireContains(t, out, "YouTube dQw4w9WgXcQ")
	requireContains(t, out, "+3.0s")

	out, _, err = runCLI(t, []string{"progress", "show", "yt:dQw4w9WgXcQ", "https://youtu.be/aaaaaaaaaaa"}, env.configPath)
	if err != nil {
		t.Fatalf("progress show: %v", err)
	}
	requireContains(t, out, "rsync:pair:yt:dQw4w9WgXcQ||yt:aaaaaaaaaaa")
}
