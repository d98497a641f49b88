package subtitles_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"reactsync/internal/subtitles"
)

const sampleSRT = "1\r\n00:00:01,000 --> 00:00:02,500\r\nHello there\r\n\r\n" +
	"2\n00:00:03,250 --> 00:00:05,000\nTwo\nlines\n\n" +
	"garbage block\n\n" +
	"00:01:00.000 --> 00:01:01.000 align:start\nNo index\n"

func TestParseSRT(t *testing.T) {
	cues, err := subtitles.ParseSRT(strings.NewReader(sampleSRT))
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].Index != 1 || cues[0].Start != 1 || cues[0].End != 2.5 || cues[0].Text != "Hello there" {
		t.Fatalf("unexpected first cue: %+v", cues[0])
	}
	if cues[1].Text != "Two\nlines" || cues[1].Start != 3.25 {
		t.Fatalf("unexpected second cue: %+v", cues[1])
	}
	if cues[2].Index != 3 || cues[2].Start != 60 || cues[2].End != 61 {
		t.Fatalf("unexpected unindexed cue: %+v", cues[2])
	}
}

func TestParseSRTEmpty(t *testing.T) {
	for _, input := range []string{"", "   \n\n", "1\nnot a timing\ntext\n"} {
		if _, err := subtitles.ParseSRT(strings.NewReader(input)); !errors.Is(err, subtitles.ErrNoCues) {
			t.Fatalf("ParseSRT(%q) expected ErrNoCues, got %v", input, err)
		}
	}
}

func TestShift(t *testing.T) {
	cues := []subtitles.Cue{
		{Index: 1, Start: 0.5, End: 1.5, Text: "gone"},
		{Index: 2, Start: 1, End: 2.5, Text: "clamped"},
		{Index: 3, Start: 10, End: 12, Text: "moved"},
	}
	shifted := subtitles.Shift(cues, -2)
	if len(shifted) != 2 {
		t.Fatalf("expected 2 cues after shift, got %+v", shifted)
	}
	if shifted[0].Index != 1 || shifted[0].Start != 0 || shifted[0].End != 0.5 || shifted[0].Text != "clamped" {
		t.Fatalf("unexpected clamped cue: %+v", shifted[0])
	}
	if shifted[1].Index != 2 || shifted[1].Start != 8 || shifted[1].End != 10 {
		t.Fatalf("unexpected moved cue: %+v", shifted[1])
	}
	if cues[1].Start != 1 {
		t.Fatal("Shift must not mutate its input")
	}

	forward := subtitles.Shift(cues, 1.5)
	if len(forward) != 3 || forward[0].Start != 2 || forward[2].End != 13.5 {
		t.Fatalf("unexpected forward shift: %+v", forward)
	}
}

func TestWriteSRTRoundTrip(t *testing.T) {
	cues, err := subtitles.ParseSRT(strings.NewReader(sampleSRT))
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	var buf bytes.Buffer
	if err := subtitles.WriteSRT(&buf, cues); err != nil {
		t.Fatalf("WriteSRT failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "1\n00:00:01,000 --> 00:00:02,500\nHello there\n\n2\n") {
		t.Fatalf("unexpected srt output:\n%s", buf.String())
	}
	again, err := subtitles.ParseSRT(&buf)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if len(again) != len(cues) || again[2].Start != cues[2].Start {
		t.Fatalf("round trip mismatch: %+v vs %+v", again, cues)
	}
}

func TestConvertSRTToVTT(t *testing.T) {
	var buf bytes.Buffer
	n, err := subtitles.ConvertSRTToVTT(strings.NewReader(sampleSRT), &buf, 0.25)
	if err != nil {
		t.Fatalf("ConvertSRTToVTT failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 cues written, got %d", n)
	}
	want := "WEBVTT\n\n00:00:01.250 --> 00:00:02.750\nHello there\n\n" +
		"00:00:03.500 --> 00:00:05.250\nTwo\nlines\n\n" +
		"00:01:00.250 --> 00:01:01.250\nNo index\n"
	if buf.String() != want {
		t.Fatalf("unexpected vtt output:\n%q\nwant\n%q", buf.String(), want)
	}

	if _, err := subtitles.ConvertSRTToVTT(strings.NewReader(sampleSRT), &bytes.Buffer{}, -500); !errors.Is(err, subtitles.ErrNoCues) {
		t.Fatalf("expected ErrNoCues when every cue shifts out, got %v", err)
	}
}
