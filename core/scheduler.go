package core

import (
	"fmt"
	"strings"
)

// pfWeightFloor is added to the average throughput in the proportional-fair
// weight so a terminal that has never transmitted still yields a finite
// weight.
const pfWeightFloor = 1e-9

// LinkState is the per-terminal view a scheduler is allowed to see: the
// instantaneous opportunity from the current step's link phase and the
// fairness state accumulated over previous steps.
type LinkState struct {
	TerminalID        string
	InstCapacityBps   float64
	AvgThroughputMbps float64
}

// Scheduler allocates the cell's bandwidth across terminals once per step.
// Implementations must return one value per input entry, each >= 0, summing
// to totalBandwidthHz. New policies plug in here without touching the channel
// model or the engine loop.
type Scheduler interface {
	// Name returns the canonical selector for this policy.
	Name() string
	// Allocate returns the bandwidth (Hz) granted to each terminal, in the
	// same order as links.
	Allocate(links []LinkState, totalBandwidthHz float64) []float64
}

// Canonical scheduler selectors. The short forms are accepted as aliases in
// scenario files.
const (
	SchedulerEqualShare       = "equal-share"
	SchedulerProportionalFair = "proportional-fair"
)

// NewScheduler resolves a selector into a policy. Unknown selectors are a
// configuration error; resolution happens once, before any simulation step, so
// a bad scenario never produces a partial run.
func NewScheduler(selector string) (Scheduler, error) {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case SchedulerEqualShare, "equal":
		return equalShareScheduler{}, nil
	case SchedulerProportionalFair, "pf":
		return proportionalFairScheduler{}, nil
	default:
		return nil, fmt.Errorf("unknown scheduler %q (want %q or %q)",
			selector, SchedulerEqualShare, SchedulerProportionalFair)
	}
}

// equalShareScheduler splits the band evenly, ignoring channel quality and
// history entirely.
type equalShareScheduler struct{}

func (equalShareScheduler) Name() string { return SchedulerEqualShare }

func (equalShareScheduler) Allocate(links []LinkState, totalBandwidthHz float64) []float64 {
	alloc := make([]float64, len(links))
	if len(links) == 0 {
		return alloc
	}
	share := totalBandwidthHz / float64(len(links))
	for i := range alloc {
		alloc[i] = share
	}
	return alloc
}

// proportionalFairScheduler weights each terminal by instantaneous capacity
// over historical average throughput, so a momentarily strong channel is
// favoured but a terminal that has been starved sees its weight grow until it
// is served again.
type proportionalFairScheduler struct{}

func (proportionalFairScheduler) Name() string { return SchedulerProportionalFair }

func (proportionalFairScheduler) Allocate(links []LinkState, totalBandwidthHz float64) []float64 {
	alloc := make([]float64, len(links))
	if len(links) == 0 {
		return alloc
	}

	weights := make([]float64, len(links))
	totalWeight := 0.0
	for i, ls := range links {
		w := ls.InstCapacityBps / (ls.AvgThroughputMbps + pfWeightFloor)
		weights[i] = w
		totalWeight += w
	}

	if totalWeight <= 0 {
		// Degenerate channel state for every terminal; fall back to an
		// even split so the full band is still handed out.
		share := totalBandwidthHz / float64(len(links))
		for i := range alloc {
			alloc[i] = share
		}
		return alloc
	}

	for i, w := range weights {
		alloc[i] = w / totalWeight * totalBandwidthHz
	}
	return alloc
}
