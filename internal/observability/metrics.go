package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/cell-simulator/core"
)

// SimulationCollector bundles Prometheus metrics for a simulation run and
// provides an HTTP handler to expose them.
type SimulationCollector struct {
	gatherer prometheus.Gatherer

	StepsCompleted prometheus.Counter
	StepDuration   prometheus.Histogram

	TerminalThroughput *prometheus.GaugeVec
	TerminalSNR        *prometheus.GaugeVec
	TerminalBandwidth  *prometheus.GaugeVec

	// lastStep anchors per-step duration observations. The engine is
	// single-threaded, so no locking is needed here.
	lastStep time.Time
}

// NewSimulationCollector registers simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSimulationCollector(reg prometheus.Registerer) (*SimulationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	steps, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_steps_completed_total",
		Help: "Total number of fully completed simulation steps.",
	}), "simulation_steps_completed_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulation_step_duration_seconds",
		Help:    "Wall-clock duration of one simulation step.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
	duration, err = registerHistogram(reg, duration, "simulation_step_duration_seconds")
	if err != nil {
		return nil, err
	}

	throughput := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "terminal_throughput_mbps",
		Help: "Realized throughput of each terminal at the most recent step.",
	}, []string{"terminal"})
	throughput, err = registerGaugeVec(reg, throughput, "terminal_throughput_mbps")
	if err != nil {
		return nil, err
	}

	snr := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "terminal_snr_db",
		Help: "Instantaneous SNR of each terminal at the most recent step.",
	}, []string{"terminal"})
	snr, err = registerGaugeVec(reg, snr, "terminal_snr_db")
	if err != nil {
		return nil, err
	}

	bandwidth := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "terminal_allocated_bandwidth_hz",
		Help: "Bandwidth granted to each terminal at the most recent step.",
	}, []string{"terminal"})
	bandwidth, err = registerGaugeVec(reg, bandwidth, "terminal_allocated_bandwidth_hz")
	if err != nil {
		return nil, err
	}

	return &SimulationCollector{
		gatherer:           gatherer,
		StepsCompleted:     steps,
		StepDuration:       duration,
		TerminalThroughput: throughput,
		TerminalSNR:        snr,
		TerminalBandwidth:  bandwidth,
	}, nil
}

// MarkRunStart anchors step-duration timing. Call it immediately before the
// engine run when the collector is registered as a step listener.
func (c *SimulationCollector) MarkRunStart() {
	if c == nil {
		return
	}
	c.lastStep = time.Now()
}

// ObserveStep records the outcome of one completed step. It satisfies
// core.StepListener so it can be registered directly on the engine.
func (c *SimulationCollector) ObserveStep(step int, records []core.StepRecord) {
	if c == nil {
		return
	}
	now := time.Now()
	if !c.lastStep.IsZero() {
		c.StepDuration.Observe(now.Sub(c.lastStep).Seconds())
	}
	c.lastStep = now
	c.StepsCompleted.Inc()
	for _, rec := range records {
		c.TerminalThroughput.WithLabelValues(rec.TerminalID).Set(rec.ThroughputMbps)
		c.TerminalSNR.WithLabelValues(rec.TerminalID).Set(rec.Budget.SNRdB)
		c.TerminalBandwidth.WithLabelValues(rec.TerminalID).Set(rec.AllocatedBandwidthHz)
	}
}

// Handler serves the collector's metrics over HTTP in the Prometheus text
// format.
func (c *SimulationCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
