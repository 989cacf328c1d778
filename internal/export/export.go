// Package export turns finalized terminal reports into files on disk: a CSV
// summary, per-terminal time-series CSVs, and PNG plots. It consumes only the
// read-only reports produced after a completed run and never touches engine
// state.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/signalsfoundry/cell-simulator/core"
	"github.com/signalsfoundry/cell-simulator/internal/logging"
)

// Exporter writes simulation results into a single output directory, creating
// it on demand.
type Exporter struct {
	OutDir string

	log logging.Logger
}

// New constructs an exporter rooted at outDir.
func New(outDir string, log logging.Logger) *Exporter {
	if log == nil {
		log = logging.Noop()
	}
	return &Exporter{OutDir: outDir, log: log}
}

// Export writes everything: summary.csv, one series CSV and one latency plot
// per terminal, and the mean-throughput bar chart.
func (e *Exporter) Export(ctx context.Context, reports []core.TerminalReport) error {
	if err := os.MkdirAll(e.OutDir, 0o755); err != nil {
		return fmt.Errorf("export: create output dir %q: %w", e.OutDir, err)
	}

	if err := e.writeSummaryCSV(reports); err != nil {
		return err
	}
	for _, rep := range reports {
		if err := e.writeSeriesCSV(rep); err != nil {
			return err
		}
		if err := e.plotLatency(rep); err != nil {
			return err
		}
	}
	if err := e.plotThroughputBars(reports); err != nil {
		return err
	}

	e.log.Info(ctx, "results exported",
		logging.String("dir", e.OutDir),
		logging.Int("terminals", len(reports)),
	)
	return nil
}

// writeSummaryCSV emits one row per terminal with the aggregate QoS figures.
func (e *Exporter) writeSummaryCSV(reports []core.TerminalReport) error {
	path := filepath.Join(e.OutDir, "summary.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"terminal", "distance_m", "mean_throughput_mbps", "median_latency_ms", "mean_snr_db"}); err != nil {
		return fmt.Errorf("export: write %q: %w", path, err)
	}
	for _, rep := range reports {
		row := []string{
			rep.TerminalID,
			formatFloat(rep.DistanceM),
			formatFloat(rep.MeanThroughputMbps),
			formatFloat(rep.MedianLatencyMs),
			formatFloat(rep.MeanSNRdB),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("export: write %q: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: flush %q: %w", path, err)
	}
	return nil
}

// writeSeriesCSV emits the step-indexed throughput/latency/SNR series for one
// terminal.
func (e *Exporter) writeSeriesCSV(rep core.TerminalReport) error {
	path := filepath.Join(e.OutDir, fmt.Sprintf("series_%s.csv", rep.TerminalID))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "throughput_mbps", "latency_ms", "snr_db"}); err != nil {
		return fmt.Errorf("export: write %q: %w", path, err)
	}
	for i := range rep.ThroughputMbps {
		row := []string{
			strconv.Itoa(i),
			formatFloat(rep.ThroughputMbps[i]),
			formatFloat(rep.LatencyMs[i]),
			formatFloat(rep.SNRdB[i]),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("export: write %q: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: flush %q: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
