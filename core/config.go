package core

import "fmt"

// SimulationConfig is the full configuration surface of one run. It is read
// once at engine construction and never mutated afterwards.
type SimulationConfig struct {
	// NumTerminals is how many terminals attach to the cell.
	NumTerminals int `json:"num_terminals" yaml:"num_terminals"`
	// TotalBandwidthHz is the shared spectrum the scheduler hands out.
	TotalBandwidthHz float64 `json:"total_bandwidth_hz" yaml:"total_bandwidth_hz"`
	// TxPowerDBm is the base station transmit power.
	TxPowerDBm float64 `json:"tx_power_dbm" yaml:"tx_power_dbm"`
	// NoiseFigureDB is the receiver noise figure.
	NoiseFigureDB float64 `json:"noise_figure_db" yaml:"noise_figure_db"`
	// MIMOGainFactor is a linear array-gain factor, >= 1.
	MIMOGainFactor float64 `json:"mimo_gain_factor" yaml:"mimo_gain_factor"`
	// Scheduler selects the allocation policy ("equal-share" or
	// "proportional-fair").
	Scheduler string `json:"scheduler" yaml:"scheduler"`
	// SimSteps is the number of discrete time steps to run.
	SimSteps int `json:"sim_steps" yaml:"sim_steps"`
	// MinDistanceM / MaxDistanceM bound the uniform random terminal
	// placement.
	MinDistanceM float64 `json:"min_distance_m" yaml:"min_distance_m"`
	MaxDistanceM float64 `json:"max_distance_m" yaml:"max_distance_m"`
	// Seed is the master seed for all random streams. Runs with equal
	// configs and seeds are bit-identical. Zero keeps the package default
	// seed, which is itself deterministic.
	Seed uint64 `json:"seed" yaml:"seed"`
	// ParallelLinkPhase fans the link phase out across one goroutine per
	// terminal. Purely a throughput knob; results are unaffected.
	ParallelLinkPhase bool `json:"parallel_link_phase" yaml:"parallel_link_phase"`
}

// DefaultConfig mirrors the canonical demo cell: five terminals on 20 MHz at
// 43 dBm, placed 50-500 m out, proportional fair over 50 steps.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		NumTerminals:     5,
		TotalBandwidthHz: 20e6,
		TxPowerDBm:       43,
		NoiseFigureDB:    7,
		MIMOGainFactor:   2,
		Scheduler:        SchedulerProportionalFair,
		SimSteps:         50,
		MinDistanceM:     50,
		MaxDistanceM:     500,
	}
}

// Validate checks every parameter and reports the first invalid one by name.
// It runs before any simulation state is built, so an invalid scenario never
// yields a partial run.
func (c SimulationConfig) Validate() error {
	if c.NumTerminals <= 0 {
		return fmt.Errorf("invalid config: num_terminals must be positive, got %d", c.NumTerminals)
	}
	if c.TotalBandwidthHz <= 0 {
		return fmt.Errorf("invalid config: total_bandwidth_hz must be positive, got %g", c.TotalBandwidthHz)
	}
	if c.MIMOGainFactor < 1 {
		return fmt.Errorf("invalid config: mimo_gain_factor must be >= 1, got %g", c.MIMOGainFactor)
	}
	if c.SimSteps <= 0 {
		return fmt.Errorf("invalid config: sim_steps must be positive, got %d", c.SimSteps)
	}
	if c.MinDistanceM <= 0 || c.MaxDistanceM <= 0 {
		return fmt.Errorf("invalid config: distance range must be positive, got [%g, %g]",
			c.MinDistanceM, c.MaxDistanceM)
	}
	if c.MinDistanceM > c.MaxDistanceM {
		return fmt.Errorf("invalid config: min_distance_m %g exceeds max_distance_m %g",
			c.MinDistanceM, c.MaxDistanceM)
	}
	if _, err := NewScheduler(c.Scheduler); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
