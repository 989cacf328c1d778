package core

import (
	"context"
	"math"
	"testing"
)

// TestResults_UnavailableBeforeCompletion verifies the exporter-facing
// contract: no reports exist until every configured step has run.
func TestResults_UnavailableBeforeCompletion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 9

	engine, err := NewSimulationEngine(cfg, nil)
	if err != nil {
		t.Fatalf("NewSimulationEngine: %v", err)
	}
	if _, err := engine.Results(); err == nil {
		t.Fatalf("Results before Run succeeded, want error")
	}
}

// TestResults_SeriesAreIndependentCopies verifies mutating a report cannot
// reach back into engine-owned terminal state.
func TestResults_SeriesAreIndependentCopies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumTerminals = 1
	cfg.SimSteps = 5
	cfg.Seed = 9

	engine, err := NewSimulationEngine(cfg, nil)
	if err != nil {
		t.Fatalf("NewSimulationEngine: %v", err)
	}
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	reports, err := engine.Results()
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	original := engine.Terminals()[0].ThroughputMbps[0]
	reports[0].ThroughputMbps[0] = -1
	if engine.Terminals()[0].ThroughputMbps[0] != original {
		t.Fatalf("mutating a report changed engine state")
	}
}

// TestResults_SummaryStatistics verifies the aggregate figures against
// directly computed values for a short run.
func TestResults_SummaryStatistics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumTerminals = 2
	cfg.SimSteps = 9
	cfg.Seed = 31

	engine, err := NewSimulationEngine(cfg, nil)
	if err != nil {
		t.Fatalf("NewSimulationEngine: %v", err)
	}
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	reports, err := engine.Results()
	if err != nil {
		t.Fatalf("Results: %v", err)
	}

	for _, rep := range reports {
		if len(rep.ThroughputMbps) != cfg.SimSteps {
			t.Fatalf("terminal %s series length = %d, want %d", rep.TerminalID, len(rep.ThroughputMbps), cfg.SimSteps)
		}
		if got := mean(rep.ThroughputMbps); math.Abs(got-rep.MeanThroughputMbps) > 1e-9*math.Abs(got) {
			t.Fatalf("terminal %s mean throughput = %v, want %v", rep.TerminalID, rep.MeanThroughputMbps, got)
		}
		if got := mean(rep.SNRdB); math.Abs(got-rep.MeanSNRdB) > 1e-9*math.Abs(got) {
			t.Fatalf("terminal %s mean SNR = %v, want %v", rep.TerminalID, rep.MeanSNRdB, got)
		}
		if rep.MedianLatencyMs <= 0 {
			t.Fatalf("terminal %s median latency = %v, want positive", rep.TerminalID, rep.MedianLatencyMs)
		}
	}
}

// TestMedian_OddAndEvenCounts pins the median on tiny hand-checked inputs:
// the middle sample for odd counts, the midpoint of the two central samples
// for even counts.
func TestMedian_OddAndEvenCounts(t *testing.T) {
	if got := median([]float64{3, 1, 2}); got != 2 {
		t.Fatalf("median of {3,1,2} = %v, want 2", got)
	}
	if got := median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Fatalf("median of {4,1,3,2} = %v, want midpoint 2.5", got)
	}
	if got := median([]float64{10, 2, 4, 8, 6, 12}); got != 7 {
		t.Fatalf("median of {10,2,4,8,6,12} = %v, want midpoint 7", got)
	}
	if got := median(nil); got != 0 {
		t.Fatalf("median of empty series = %v, want 0", got)
	}
}
