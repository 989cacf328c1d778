package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/iti/rngstream"

	"github.com/signalsfoundry/cell-simulator/internal/logging"
)

// Latency model constants: a fixed reference packet transmitted at the
// terminal's achieved capacity, plus straight-line propagation and a fixed
// processing floor.
const (
	referencePacketBits = 1e6
	processingDelayS    = 1e-3

	// capacityFloor keeps the transmission-time division finite when a
	// terminal's achieved capacity collapses to zero in a deep fade.
	capacityFloor = 1e-9
)

// StepRecord is the complete per-terminal outcome of one simulation step:
// the link budget from the link phase, the scheduler's grant, and the
// realized QoS metrics. One record type instead of parallel slices, so the
// three phases can never mis-align terminals.
type StepRecord struct {
	TerminalID           string
	Budget               LinkBudget
	AllocatedBandwidthHz float64
	ThroughputMbps       float64
	LatencyMs            float64
}

// StepListener is invoked after each completed step with the step index and
// that step's per-terminal records. Records are owned by the engine and must
// not be retained across calls.
type StepListener func(step int, records []StepRecord)

// SimulationEngine owns the terminals and drives the fixed number of
// simulation steps. Each step runs three phases in order: link (channel model
// per terminal), allocation (one scheduler call), metrics (realized
// throughput/latency and EMA update). Steps are strictly sequential because
// proportional-fair weighting at step n+1 reads the averages written at the
// end of step n.
type SimulationEngine struct {
	cfg       SimulationConfig
	scheduler Scheduler
	terminals []*Terminal
	log       logging.Logger

	stepListeners []StepListener

	completedSteps int
}

// NewSimulationEngine validates cfg, resolves the scheduling policy, and
// places the terminals at random distances within the configured range. All
// configuration errors surface here, before the first step can run.
func NewSimulationEngine(cfg SimulationConfig, log logging.Logger) (*SimulationEngine, error) {
	if log == nil {
		log = logging.Noop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sched, err := NewScheduler(cfg.Scheduler)
	if err != nil {
		// Unreachable after Validate, but kept so the constructor never
		// depends on Validate covering the selector.
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Seed != 0 {
		rngstream.SetRngStreamMasterSeed(cfg.Seed)
	}

	// The placement stream is created before any terminal stream so a
	// given seed always yields the same distances and the same per-terminal
	// fading sequences.
	placement := rngstream.New("terminal-placement")

	terminals := make([]*Terminal, 0, cfg.NumTerminals)
	for i := 0; i < cfg.NumTerminals; i++ {
		d := cfg.MinDistanceM + (cfg.MaxDistanceM-cfg.MinDistanceM)*placement.RandU01()
		term, err := NewTerminal(fmt.Sprintf("ue-%d", i), d)
		if err != nil {
			return nil, err
		}
		terminals = append(terminals, term)
	}

	return &SimulationEngine{
		cfg:       cfg,
		scheduler: sched,
		terminals: terminals,
		log:       log.With(logging.String("scheduler", sched.Name())),
	}, nil
}

// Config returns the configuration the engine was built with.
func (e *SimulationEngine) Config() SimulationConfig { return e.cfg }

// Terminals returns the engine's terminals. Callers must treat them as
// read-only; all mutation happens inside Run.
func (e *SimulationEngine) Terminals() []*Terminal { return e.terminals }

// CompletedSteps returns how many steps have fully finished, including their
// state updates.
func (e *SimulationEngine) CompletedSteps() int { return e.completedSteps }

// RegisterStepListener adds a callback invoked after every completed step.
// Listeners must be registered before Run.
func (e *SimulationEngine) RegisterStepListener(fn StepListener) {
	e.stepListeners = append(e.stepListeners, fn)
}

// Run executes the configured number of steps to completion. It is a bounded
// batch computation: no I/O, no cancellation, no mid-step suspension.
func (e *SimulationEngine) Run(ctx context.Context) error {
	if e.completedSteps > 0 {
		return fmt.Errorf("engine has already run %d steps; build a new engine for a fresh run", e.completedSteps)
	}

	e.log.Info(ctx, "simulation starting",
		logging.Int("terminals", len(e.terminals)),
		logging.Int("steps", e.cfg.SimSteps),
		logging.Float64("total_bandwidth_hz", e.cfg.TotalBandwidthHz),
	)

	for step := 0; step < e.cfg.SimSteps; step++ {
		records := e.linkPhase()
		e.allocationPhase(records)
		e.metricsPhase(records)

		e.completedSteps++
		for _, fn := range e.stepListeners {
			fn(step, records)
		}
	}

	e.log.Info(ctx, "simulation complete", logging.Int("steps", e.completedSteps))
	return nil
}

// linkPhase evaluates the channel model for every terminal and appends the
// step's SNR sample. The per-terminal computations are independent (each
// terminal draws from its own stream), so the fan-out may run one goroutine
// per terminal; either way the phase joins completely before allocation.
func (e *SimulationEngine) linkPhase() []StepRecord {
	records := make([]StepRecord, len(e.terminals))

	if e.cfg.ParallelLinkPhase {
		var wg sync.WaitGroup
		wg.Add(len(e.terminals))
		for i, term := range e.terminals {
			go func(i int, term *Terminal) {
				defer wg.Done()
				records[i] = e.linkForTerminal(term)
			}(i, term)
		}
		wg.Wait()
		return records
	}

	for i, term := range e.terminals {
		records[i] = e.linkForTerminal(term)
	}
	return records
}

func (e *SimulationEngine) linkForTerminal(term *Terminal) StepRecord {
	budget := ComputeLink(term.Rng(), term.DistanceM,
		e.cfg.TotalBandwidthHz, e.cfg.TxPowerDBm, e.cfg.NoiseFigureDB, e.cfg.MIMOGainFactor)
	term.SNRdB = append(term.SNRdB, budget.SNRdB)
	return StepRecord{TerminalID: term.ID, Budget: budget}
}

// allocationPhase makes the single scheduler call of the step and stores each
// terminal's grant on its record.
func (e *SimulationEngine) allocationPhase(records []StepRecord) {
	links := make([]LinkState, len(records))
	for i, rec := range records {
		links[i] = LinkState{
			TerminalID:        rec.TerminalID,
			InstCapacityBps:   rec.Budget.InstCapacityBps,
			AvgThroughputMbps: e.terminals[i].AvgThroughputMbps,
		}
	}

	alloc := e.scheduler.Allocate(links, e.cfg.TotalBandwidthHz)
	for i := range records {
		records[i].AllocatedBandwidthHz = alloc[i]
	}
}

// metricsPhase recomputes each terminal's achievable capacity against its
// allocated bandwidth, derives throughput and latency, appends both
// histories, and folds the throughput sample into the EMA. The EMA update is
// the state the next step's allocation phase will read.
func (e *SimulationEngine) metricsPhase(records []StepRecord) {
	for i, term := range e.terminals {
		rec := &records[i]

		capBps := shannonCapacityBps(rec.AllocatedBandwidthHz, rec.Budget.SNRLinear)
		rec.ThroughputMbps = capBps / 1e6

		txTimeS := referencePacketBits / (capBps + capacityFloor)
		propDelayS := term.DistanceM / speedOfLightMps
		rec.LatencyMs = (txTimeS + propDelayS + processingDelayS) * 1000

		term.ThroughputMbps = append(term.ThroughputMbps, rec.ThroughputMbps)
		term.LatencyMs = append(term.LatencyMs, rec.LatencyMs)
		term.updateAvgThroughput(rec.ThroughputMbps)
	}
}
