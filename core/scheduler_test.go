package core

import (
	"math"
	"testing"
)

// TestNewScheduler_ResolvesSelectors verifies both canonical selectors and
// their short aliases resolve to the right policy.
func TestNewScheduler_ResolvesSelectors(t *testing.T) {
	cases := map[string]string{
		"equal-share":       SchedulerEqualShare,
		"equal":             SchedulerEqualShare,
		"Proportional-Fair": SchedulerProportionalFair,
		"pf":                SchedulerProportionalFair,
	}
	for selector, want := range cases {
		sched, err := NewScheduler(selector)
		if err != nil {
			t.Fatalf("NewScheduler(%q) error: %v", selector, err)
		}
		if sched.Name() != want {
			t.Fatalf("NewScheduler(%q).Name() = %q, want %q", selector, sched.Name(), want)
		}
	}
}

// TestNewScheduler_RejectsUnknownSelector verifies an unrecognized selector
// fails at resolution time, not during a run.
func TestNewScheduler_RejectsUnknownSelector(t *testing.T) {
	if _, err := NewScheduler("foo"); err == nil {
		t.Fatalf("NewScheduler(\"foo\") succeeded, want configuration error")
	}
}

// TestEqualShare_IgnoresChannelAndHistory verifies every terminal receives an
// identical share regardless of wildly different capacities and histories.
func TestEqualShare_IgnoresChannelAndHistory(t *testing.T) {
	sched, err := NewScheduler(SchedulerEqualShare)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	links := []LinkState{
		{TerminalID: "ue-0", InstCapacityBps: 1e9, AvgThroughputMbps: 500},
		{TerminalID: "ue-1", InstCapacityBps: 1e3, AvgThroughputMbps: 1e-6},
		{TerminalID: "ue-2", InstCapacityBps: 5e7, AvgThroughputMbps: 42},
	}
	alloc := sched.Allocate(links, 20e6)
	if len(alloc) != 3 {
		t.Fatalf("allocation length = %d, want 3", len(alloc))
	}
	want := 20e6 / 3.0
	for i, a := range alloc {
		if a != want {
			t.Fatalf("alloc[%d] = %v, want uniform %v", i, a, want)
		}
	}
}

// TestAllocate_SumsToTotalBandwidth verifies the conservation invariant for
// both policies across a spread of terminal counts.
func TestAllocate_SumsToTotalBandwidth(t *testing.T) {
	const totalHz = 20e6
	for _, selector := range []string{SchedulerEqualShare, SchedulerProportionalFair} {
		sched, err := NewScheduler(selector)
		if err != nil {
			t.Fatalf("NewScheduler(%q): %v", selector, err)
		}
		for _, n := range []int{1, 2, 3, 7, 16} {
			links := make([]LinkState, n)
			for i := range links {
				links[i] = LinkState{
					TerminalID:        "ue",
					InstCapacityBps:   float64(i+1) * 1e6,
					AvgThroughputMbps: float64(i)*3 + 1e-6,
				}
			}
			alloc := sched.Allocate(links, totalHz)

			sum := 0.0
			for _, a := range alloc {
				if a < 0 {
					t.Fatalf("%s with %d terminals produced negative allocation %v", selector, n, a)
				}
				sum += a
			}
			if math.Abs(sum-totalHz) > 1e-6*totalHz {
				t.Fatalf("%s with %d terminals allocated %v Hz total, want %v", selector, n, sum, totalHz)
			}
		}
	}
}
