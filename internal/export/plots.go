package export

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/signalsfoundry/cell-simulator/core"
)

// plotLatency renders one terminal's latency-over-time line plot as
// latency_<id>.png.
func (e *Exporter) plotLatency(rep core.TerminalReport) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s latency over time", rep.TerminalID)
	p.X.Label.Text = "time step"
	p.Y.Label.Text = "latency (ms)"

	pts := make(plotter.XYs, len(rep.LatencyMs))
	for i, v := range rep.LatencyMs {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("export: latency line for %s: %w", rep.TerminalID, err)
	}
	p.Add(line)

	path := filepath.Join(e.OutDir, fmt.Sprintf("latency_%s.png", rep.TerminalID))
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("export: save %q: %w", path, err)
	}
	return nil
}

// plotThroughputBars renders the mean-throughput-per-terminal bar chart as
// throughput_per_terminal.png.
func (e *Exporter) plotThroughputBars(reports []core.TerminalReport) error {
	p := plot.New()
	p.Title.Text = "Mean throughput per terminal"
	p.X.Label.Text = "terminal"
	p.Y.Label.Text = "throughput (Mbps)"

	values := make(plotter.Values, len(reports))
	names := make([]string, len(reports))
	for i, rep := range reports {
		values[i] = rep.MeanThroughputMbps
		names[i] = rep.TerminalID
	}

	bars, err := plotter.NewBarChart(values, vg.Points(25))
	if err != nil {
		return fmt.Errorf("export: throughput bar chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(names...)

	path := filepath.Join(e.OutDir, "throughput_per_terminal.png")
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("export: save %q: %w", path, err)
	}
	return nil
}
