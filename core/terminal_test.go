package core

import "testing"

// TestNewTerminal_RejectsBadArguments verifies non-positive distances and
// empty IDs never produce a terminal; the path-loss model depends on it.
func TestNewTerminal_RejectsBadArguments(t *testing.T) {
	if _, err := NewTerminal("ue-0", 0); err == nil {
		t.Fatalf("NewTerminal accepted zero distance")
	}
	if _, err := NewTerminal("ue-0", -5); err == nil {
		t.Fatalf("NewTerminal accepted negative distance")
	}
	if _, err := NewTerminal("", 100); err == nil {
		t.Fatalf("NewTerminal accepted empty id")
	}
}

// TestNewTerminal_InitialState verifies the epsilon-seeded average and empty
// histories of a fresh terminal.
func TestNewTerminal_InitialState(t *testing.T) {
	term, err := NewTerminal("ue-0", 100)
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}
	if term.AvgThroughputMbps != initialAvgThroughputMbps {
		t.Fatalf("initial average = %v, want %v", term.AvgThroughputMbps, initialAvgThroughputMbps)
	}
	if term.AvgThroughputMbps <= 0 {
		t.Fatalf("initial average must be strictly positive, got %v", term.AvgThroughputMbps)
	}
	if term.StepsRecorded() != 0 {
		t.Fatalf("fresh terminal has %d recorded steps, want 0", term.StepsRecorded())
	}
	if term.Rng() == nil {
		t.Fatalf("terminal has no random stream")
	}
}

// TestTerminal_EMAUpdate pins the exact smoothing arithmetic on a couple of
// hand-computed samples.
func TestTerminal_EMAUpdate(t *testing.T) {
	term, err := NewTerminal("ue-0", 100)
	if err != nil {
		t.Fatalf("NewTerminal: %v", err)
	}

	term.updateAvgThroughput(10)
	want := emaRetain*initialAvgThroughputMbps + (1-emaRetain)*10
	if term.AvgThroughputMbps != want {
		t.Fatalf("EMA after first sample = %v, want %v", term.AvgThroughputMbps, want)
	}

	term.updateAvgThroughput(0)
	want = emaRetain * want
	if term.AvgThroughputMbps != want {
		t.Fatalf("EMA after zero sample = %v, want %v", term.AvgThroughputMbps, want)
	}
	if term.AvgThroughputMbps <= 0 {
		t.Fatalf("EMA fell to %v after zero sample, want strictly positive", term.AvgThroughputMbps)
	}
}
