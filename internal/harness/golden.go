package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is the JSON shape stored in golden files. Step counts are
// deliberately excluded: they are covered by unit tests, and keeping them
// out of the goldens means a cheaper rule ordering tweak does not churn
// every fixture.
type TraceSnapshot struct {
	Scenario string   `json:"scenario"`
	Input    string   `json:"input,omitempty"`
	Output   string   `json:"output,omitempty"`
	Stuck    []string `json:"stuck,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// AssertGolden compares a scenario result against its golden file under
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	snapshot := TraceSnapshot{
		Scenario: name,
		Input:    result.Input,
		Output:   result.Output,
		Stuck:    result.Stuck,
		Error:    result.ErrorKind,
	}
	data, err := json.MarshalIndent(&snapshot, "", "  ")
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

// RunWithGolden executes a scenario and compares its trace against the
// golden file named after it.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}
