// Package harness runs evaluation scenarios: YAML files that pair a
// program and an input term with the expected normal form. Scenario
// traces are compared against golden files, which serve as the source of
// truth for evaluator behavior.
package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one evaluation test case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program holds ctr/fun/run declarations. Optional when Term alone
	// is enough.
	Program string `yaml:"program,omitempty"`

	// Term is the input term. Overrides the program's run block.
	Term string `yaml:"term,omitempty"`

	// MaxSteps overrides the default step budget when positive.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Expect is the printed normal form the evaluation must produce.
	Expect string `yaml:"expect,omitempty"`

	// ExpectStuck lists function names expected to get stuck, in
	// first-encounter order.
	ExpectStuck []string `yaml:"expect_stuck,omitempty"`

	// ExpectError names the error kind the scenario must fail with:
	// parse_error, unbound_variable, or step_budget_exceeded.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Error kinds a scenario may expect.
const (
	ErrorParse  = "parse_error"
	ErrorBound  = "unbound_variable"
	ErrorBudget = "step_budget_exceeded"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected, which catches typos like "expects:" for "expect:".
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Program == "" && s.Term == "" {
		return fmt.Errorf("program or term is required")
	}
	if s.Expect == "" && s.ExpectError == "" {
		return fmt.Errorf("expect or expect_error is required")
	}
	switch s.ExpectError {
	case "", ErrorParse, ErrorBound, ErrorBudget:
	default:
		return fmt.Errorf("unknown expect_error %q", s.ExpectError)
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative")
	}
	return nil
}
