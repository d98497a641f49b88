package main

import (
	"testing"
)

func TestThresholdCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"threshold", "--delay", "10", "--json"}, "")
	if err != nil {
		t.Fatalf("threshold: %v", err)
	}
	view := decodeJSON[thresholdView](t, out)
	if view.Threshold != 0.5 || view.IntervalMS != 500 {
		t.Fatalf("unexpected threshold view %+v", view)
	}

	out, _, err = runCLI(t, []string{"threshold", "--delay", "-40"}, "")
	if err != nil {
		t.Fatalf("threshold table: %v", err)
	}
	requireContains(t, out, "1.000s")
	requireContains(t, out, "1000ms")
}

func TestSeekCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"seek", "--delay", "5", "--base", "2", "--json"}, "")
	if err != nil {
		t.Fatalf("seek base: %v", err)
	}
	view := decodeJSON[seekView](t, out)
	if view.ReactTime != 7 || view.BaseTime != 2 {
		t.Fatalf("unexpected seek view %+v", view)
	}

	out, _, err = runCLI(t, []string{"seek", "--delay", "5", "--react", "0:02", "--json"}, "")
	if err != nil {
		t.Fatalf("seek react: %v", err)
	}
	view = decodeJSON[seekView](t, out)
	if view.BaseTime != 0 || view.ReactTime != 2 {
		t.Fatalf("expected clamped base seek, got %+v", view)
	}

	if _, _, err := runCLI(t, []string{"seek", "--base", "1", "--react", "1"}, ""); err == nil {
		t.Fatal("expected an error when both streams are given")
	}
}

func TestDecideCommand(t *testing.T) {
	cases := []struct {
		name   string
		args   []string
		action string
		reason string
		target float64
	}{
		{
			name:   "half step",
			args:   []string{"--delay", "2", "--base", "10", "--react", "8"},
			action: "nudge",
			reason: "drift",
			target: 10,
		},
		{
			name:   "within threshold",
			args:   []string{"--delay", "2", "--base", "10", "--react", "11.8"},
			action: "none",
			reason: "within_threshold",
		},
		{
			name:   "forced",
			args:   []string{"--delay", "2", "--base", "10", "--react", "11.8", "--force", "--seeking"},
			action: "snap",
			reason: "forced",
			target: 12,
		},
		{
			name:   "seeking",
			args:   []string{"--delay", "2", "--base", "10", "--react", "8", "--seeking"},
			action: "none",
			reason: "seeking",
		},
		{
			name:   "inside grace",
			args:   []string{"--delay", "2", "--base", "10", "--react", "8", "--interacting", "--since-interaction", "1s"},
			action: "none",
			reason: "interaction_grace",
		},
		{
			name:   "after grace",
			args:   []string{"--delay", "2", "--base", "10", "--react", "8", "--interacting", "--since-interaction", "2s"},
			action: "nudge",
			reason: "drift",
			target: 10,
		},
		{
			name:   "disabled",
			args:   []string{"--delay", "2", "--base", "10", "--react", "8", "--disabled", "--force"},
			action: "none",
			reason: "disabled",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runCLI(t, append([]string{"decide", "--json"}, tc.args...), "")
			if err != nil {
				t.Fatalf("decide: %v", err)
			}
			view := decodeJSON[decisionView](t, out)
			if view.Action != tc.action || view.Reason != tc.reason {
				t.Fatalf("got %s/%s, want %s/%s", view.Action, view.Reason, tc.action, tc.reason)
			}
			if tc.action != "none" && view.Target != tc.target {
				t.Fatalf("target = %v, want %v", view.Target, tc.target)
			}
			if tc.action == "none" && view.Correction != 0 {
				t.Fatalf("expected zero correction sentinel, got %v", view.Correction)
			}
		})
	}
}

func TestDecideRequiresPositions(t *testing.T) {
	if _, _, err := runCLI(t, []string{"decide", "--base", "1"}, ""); err == nil {
		t.Fatal("expected missing --react to fail")
	}
}

func TestDelayCommands(t *testing.T) {
	out, _, err := runCLI(t, []string{"delay", "parse", "/tmp/reaction.dt-25.mp4"}, "")
	if err != nil {
		t.Fatalf("delay parse: %v", err)
	}
	requireContains(t, out, "-2.5s")

	if _, _, err := runCLI(t, []string{"delay", "parse", "reaction.mp4"}, ""); err == nil {
		t.Fatal("expected missing token to fail")
	}

	out, _, err = runCLI(t, []string{"delay", "step", "--held", "1500ms"}, "")
	if err != nil {
		t.Fatalf("delay step: %v", err)
	}
	requireContains(t, out, "step 0.5s")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "reactsync dev")
}
