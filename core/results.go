package core

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TerminalReport is the finalized, read-only view of one terminal after a
// completed run: the three per-step series plus the aggregate summary the
// exporter tabulates. Series slices are copies; mutating them cannot corrupt
// engine state.
type TerminalReport struct {
	TerminalID string
	DistanceM  float64

	ThroughputMbps []float64
	LatencyMs      []float64
	SNRdB          []float64

	MeanThroughputMbps float64
	MedianLatencyMs    float64
	MeanSNRdB          float64
}

// Results finalizes the run into one report per terminal. It is only valid
// after every configured step has completed; asking earlier is an error so an
// exporter can never observe a partial result set.
func (e *SimulationEngine) Results() ([]TerminalReport, error) {
	if e.completedSteps < e.cfg.SimSteps {
		return nil, fmt.Errorf("results requested after %d of %d steps", e.completedSteps, e.cfg.SimSteps)
	}

	reports := make([]TerminalReport, 0, len(e.terminals))
	for _, term := range e.terminals {
		reports = append(reports, TerminalReport{
			TerminalID:         term.ID,
			DistanceM:          term.DistanceM,
			ThroughputMbps:     append([]float64(nil), term.ThroughputMbps...),
			LatencyMs:          append([]float64(nil), term.LatencyMs...),
			SNRdB:              append([]float64(nil), term.SNRdB...),
			MeanThroughputMbps: stat.Mean(term.ThroughputMbps, nil),
			MedianLatencyMs:    median(term.LatencyMs),
			MeanSNRdB:          stat.Mean(term.SNRdB, nil),
		})
	}
	return reports, nil
}

// median returns the middle sample of xs, averaging the two central samples
// for even-length series.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
