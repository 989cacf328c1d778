package core

import (
	"math"

	"github.com/iti/rngstream"
	"gonum.org/v1/gonum/stat/distuv"
)

// Radio constants for the single-cell model. The carrier is fixed; the
// simulator models one mid-band 5G cell and nothing else.
const (
	carrierFrequencyHz = 3.5e9
	speedOfLightMps    = 3e8

	// pathLossExponent is the log-distance decay exponent (urban-ish).
	pathLossExponent = 3.0

	// thermalNoiseDBmHz is kT at room temperature.
	thermalNoiseDBmHz = -174.0

	// fadingFloor keeps 20*log10(sample) finite for a near-zero Rayleigh
	// draw.
	fadingFloor = 1e-9
)

// rayleigh is the unit-scale fading distribution, expressed as the Weibull
// special case: K = 2 with lambda = sqrt(2) is exactly Rayleigh sigma = 1.
// Sampling goes through its quantile function so the uniform draw can come
// from a terminal's own rngstream rather than a process-wide generator.
var rayleigh = distuv.Weibull{K: 2, Lambda: math.Sqrt2}

// LinkBudget carries every per-step quantity the channel model derives for a
// single terminal. Keeping them in one record avoids the positional coupling
// of carrying SNRs and capacities in separate parallel slices.
type LinkBudget struct {
	PathLossDB    float64
	FadingGainDB  float64
	RxPowerDBm    float64
	NoisePowerDBm float64
	SNRdB         float64
	SNRLinear     float64

	// InstCapacityBps is Shannon capacity against the cell's total
	// bandwidth. It feeds scheduler weighting only; realized throughput is
	// recomputed later against the bandwidth actually allocated.
	InstCapacityBps float64
}

// ComputeLink evaluates the link budget for one terminal at one step: path
// loss at the terminal's distance, a fresh Rayleigh fading draw from rng, MIMO
// gain, thermal noise, SNR, and Shannon capacity. Pure apart from the single
// draw consumed from rng.
func ComputeLink(rng *rngstream.RngStream, distanceM, totalBandwidthHz, txPowerDBm, noiseFigureDB, mimoGainFactor float64) LinkBudget {
	pl := pathLossDB(distanceM)

	fade := rayleigh.Quantile(rng.RandU01())
	fadeDB := 20 * math.Log10(fade+fadingFloor)

	mimoDB := 10 * math.Log10(mimoGainFactor)

	rx := txPowerDBm - pl + fadeDB + mimoDB
	noise := noisePowerDBm(totalBandwidthHz, noiseFigureDB)

	snrDB := rx - noise
	snrLin := math.Pow(10, snrDB/10)

	return LinkBudget{
		PathLossDB:      pl,
		FadingGainDB:    fadeDB,
		RxPowerDBm:      rx,
		NoisePowerDBm:   noise,
		SNRdB:           snrDB,
		SNRLinear:       snrLin,
		InstCapacityBps: shannonCapacityBps(totalBandwidthHz, snrLin),
	}
}

// pathLossDB is a log-distance model referenced at d0 = 1 m: free-space loss
// at the reference distance plus 10*n*log10(d/d0).
func pathLossDB(distanceM float64) float64 {
	const d0 = 1.0
	plD0 := 20 * math.Log10(4*math.Pi*d0*carrierFrequencyHz/speedOfLightMps)
	return plD0 + 10*pathLossExponent*math.Log10(distanceM/d0)
}

// noisePowerDBm is thermal noise integrated over bw plus the receiver noise
// figure.
func noisePowerDBm(bandwidthHz, noiseFigureDB float64) float64 {
	return thermalNoiseDBmHz + 10*math.Log10(bandwidthHz) + noiseFigureDB
}

// shannonCapacityBps is the Shannon-Hartley bound bw*log2(1+snr).
func shannonCapacityBps(bandwidthHz, snrLinear float64) float64 {
	return bandwidthHz * math.Log2(1+snrLinear)
}
