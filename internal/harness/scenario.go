// Package harness runs conformance scenarios against the frame generator.
//
// A scenario is a YAML file naming a specification source plus expectations
// over the generated frames: summary counts, the ordered keys of normal
// frames, and point assertions on individual frames. Scenarios back the
// repository's own regression tests; golden.go adds golden-file comparison
// of the plain frame listing.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Spec is the path to the specification source (.tsl or .cue), relative
	// to the scenario file unless absolute.
	Spec string `yaml:"spec"`

	// MaxStates, when positive, bounds the backtracking search.
	MaxStates int `yaml:"max_states,omitempty"`

	// Expect holds the assertions evaluated against the generated frames.
	Expect Expectation `yaml:"expect"`
}

// Expectation is the assertion set for a scenario. Nil count fields are not
// checked.
type Expectation struct {
	Total  *int `yaml:"total,omitempty"`
	Normal *int `yaml:"normal,omitempty"`
	Single *int `yaml:"single,omitempty"`
	Error  *int `yaml:"error,omitempty"`

	// Keys, when present, must equal the ordered keys of all normal frames.
	Keys []string `yaml:"keys,omitempty"`

	// Frames are point assertions on individual frames by sequence number.
	Frames []FrameExpectation `yaml:"frames,omitempty"`
}

// FrameExpectation asserts on one frame. Empty fields are not checked
// (except Seq, which selects the frame).
type FrameExpectation struct {
	Seq    int    `yaml:"seq"`
	Type   string `yaml:"type,omitempty"`
	Key    string `yaml:"key,omitempty"`
	Branch string `yaml:"branch,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file, resolving the spec
// path relative to the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if !filepath.IsAbs(scenario.Spec) && scenario.Spec != "" {
		scenario.Spec = filepath.Join(filepath.Dir(path), scenario.Spec)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml scenario in a directory, sorted by
// filename for deterministic test order.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}

	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Spec == "" {
		return fmt.Errorf("spec is required")
	}
	for _, fe := range s.Expect.Frames {
		if fe.Seq < 1 {
			return fmt.Errorf("frame expectation seq must be >= 1, got %d", fe.Seq)
		}
	}
	return nil
}
