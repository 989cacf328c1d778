package core

import (
	"fmt"

	"github.com/iti/rngstream"
)

// initialAvgThroughputMbps seeds the running throughput average. It must be
// strictly positive so proportional-fair weighting never divides by zero.
const initialAvgThroughputMbps = 1e-6

// emaRetain is the weight given to the previous average when folding in a new
// throughput sample; the new sample receives 1 - emaRetain.
const emaRetain = 0.9

// Terminal is one mobile terminal attached to the cell. Its distance is fixed
// for the whole run (no mobility); everything else is per-step state owned and
// mutated exclusively by the SimulationEngine.
type Terminal struct {
	ID        string
	DistanceM float64

	// AvgThroughputMbps is the exponential moving average of realized
	// throughput, used by proportional-fair weighting. Strictly positive
	// at all times.
	AvgThroughputMbps float64

	// Per-step histories, appended in time order. All three grow in
	// lock-step: after step n each has exactly n samples.
	ThroughputMbps []float64
	LatencyMs      []float64
	SNRdB          []float64

	// rng is this terminal's private random stream. One fading draw is
	// taken from it per step, so a fixed master seed reproduces the run
	// exactly.
	rng *rngstream.RngStream
}

// NewTerminal constructs a terminal at a fixed distance from the base station.
// Non-positive distances are rejected here so the path-loss model never sees
// log10 of a non-positive argument.
func NewTerminal(id string, distanceM float64) (*Terminal, error) {
	if id == "" {
		return nil, fmt.Errorf("NewTerminal: empty id")
	}
	if distanceM <= 0 {
		return nil, fmt.Errorf("NewTerminal %s: distance must be > 0 m, got %g", id, distanceM)
	}
	return &Terminal{
		ID:                id,
		DistanceM:         distanceM,
		AvgThroughputMbps: initialAvgThroughputMbps,
		rng:               rngstream.New(id),
	}, nil
}

// Rng returns the terminal's private random stream.
func (t *Terminal) Rng() *rngstream.RngStream {
	return t.rng
}

// updateAvgThroughput folds a realized throughput sample into the EMA:
// new = 0.9*old + 0.1*sample.
func (t *Terminal) updateAvgThroughput(sampleMbps float64) {
	t.AvgThroughputMbps = emaRetain*t.AvgThroughputMbps + (1-emaRetain)*sampleMbps
}

// StepsRecorded returns how many completed steps this terminal has samples
// for. The three histories always agree on this count.
func (t *Terminal) StepsRecorded() int {
	return len(t.ThroughputMbps)
}
