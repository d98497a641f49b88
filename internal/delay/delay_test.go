package delay_test

import (
	"math"
	"testing"
	"time"

	"reactsync/internal/delay"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, limit, want float64
	}{
		{1.234, 300, 1.23},
		{-1.236, 300, -1.24},
		{450, 300, 300},
		{-301.5, 300, -300},
		{12, 10, 10},
		{12, 0, 12},
		{math.NaN(), 300, 0},
	}
	for _, tc := range cases {
		if got := delay.Normalize(tc.in, tc.limit); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Normalize(%v, %v) = %v, want %v", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestFromPositions(t *testing.T) {
	if got := delay.FromPositions(10, 12.345, delay.MaxSeconds); math.Abs(got-2.35) > 1e-9 {
		t.Fatalf("unexpected delay: %v", got)
	}
	if got := delay.FromPositions(900, 0, delay.MaxSeconds); got != -300 {
		t.Fatalf("expected clamp to -300, got %v", got)
	}
}

func TestHoldStep(t *testing.T) {
	cases := []struct {
		held time.Duration
		want float64
	}{
		{0, 0.1},
		{time.Second, 0.1},
		{1500 * time.Millisecond, 0.5},
		{2 * time.Second, 0.5},
		{2500 * time.Millisecond, 1.0},
	}
	for _, tc := range cases {
		if got := delay.HoldStep(tc.held); got != tc.want {
			t.Fatalf("HoldStep(%v) = %v, want %v", tc.held, got, tc.want)
		}
	}
}

func TestParseFilename(t *testing.T) {
	cases := []struct {
		name string
		want float64
		ok   bool
	}{
		{"reaction.dt25.mp4", 2.5, true},
		{"reaction.dt-13.webm", -1.3, true},
		{"dt100.mkv", 10, true},
		{"reaction.mp4", 0, false},
		{"reaction.dtx.mp4", 0, false},
		{"reaction.dt.mp4", 0, false},
		{"dtour.dt5.mp4", 0.5, true},
		{"reaction.dt+7.mp4", 0.7, true},
		{"reaction.dtInf.mp4", 0, false},
		{"reaction.dtNaN.mp4", 0, false},
		{"reaction.dt0x1p4.mp4", 0, false},
		{"reaction.dt1_0.mp4", 0, false},
		{"reaction.dt1e3.mp4", 0, false},
		{"reaction.dt-.mp4", 0, false},
		{"reaction.dtInf.dt3.mp4", 0.3, true},
	}
	for _, tc := range cases {
		got, ok := delay.ParseFilename(tc.name)
		if ok != tc.ok || math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseFilename(%q) = %v, %v; want %v, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1.5, "+1.5s"},
		{-0.34, "-0.3s"},
		{0, "+0.0s"},
		{math.NaN(), "0.0s"},
	}
	for _, tc := range cases {
		if got := delay.Format(tc.in); got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
