package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadScenario reads a simulation scenario from disk, choosing the codec by
// file extension (.json, .yaml, .yml). Fields absent from the file keep their
// DefaultConfig values, so a scenario can override just the knobs it cares
// about.
//
// Only decode errors are reported here; semantic validation runs once in
// NewSimulationEngine via SimulationConfig.Validate.
func LoadScenario(path string) (SimulationConfig, error) {
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	case ".json", "":
	default:
		return SimulationConfig{}, fmt.Errorf("LoadScenario: unsupported scenario extension %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("LoadScenario: %w", err)
	}
	defer f.Close()

	return DecodeScenario(f, format)
}

// DecodeScenario decodes a scenario from r in the given format ("json" or
// "yaml"), overlaying the decoded fields onto DefaultConfig.
func DecodeScenario(r io.Reader, format string) (SimulationConfig, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(format) {
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&cfg); err != nil {
			return SimulationConfig{}, fmt.Errorf("DecodeScenario: json decode failed: %w", err)
		}
	case "yaml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&cfg); err != nil {
			return SimulationConfig{}, fmt.Errorf("DecodeScenario: yaml decode failed: %w", err)
		}
	default:
		return SimulationConfig{}, fmt.Errorf("DecodeScenario: unsupported format %q", format)
	}
	return cfg, nil
}
