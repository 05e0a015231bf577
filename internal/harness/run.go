package harness

import (
	"fmt"

	"github.com/tslkit/tslkit/internal/generator"
	"github.com/tslkit/tslkit/internal/model"
	"github.com/tslkit/tslkit/internal/specfile"
)

// Report is the outcome of running one scenario.
type Report struct {
	// Pass is true when every expectation matched.
	Pass bool

	// Failures lists expectation mismatches. Empty if Pass is true.
	Failures []string

	// Result is the generated frame list, for golden comparison and
	// diagnostics.
	Result *generator.Result
}

// Run loads the scenario's specification, generates frames, and evaluates
// every expectation. A generation error (as opposed to a failed expectation)
// is returned as an error.
func Run(scenario *Scenario) (*Report, error) {
	spec, _, err := specfile.Load(scenario.Spec)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: load spec: %w", scenario.Name, err)
	}

	var opts []generator.Option
	if scenario.MaxStates > 0 {
		opts = append(opts, generator.WithStepBudget(scenario.MaxStates))
	}

	result, err := generator.New(spec, opts...).Generate()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: generate: %w", scenario.Name, err)
	}

	report := &Report{Pass: true, Result: result}
	evaluate(scenario, result, report)
	return report, nil
}

func evaluate(scenario *Scenario, result *generator.Result, report *Report) {
	expect := scenario.Expect

	checkCount := func(name string, want *int, got int) {
		if want != nil && *want != got {
			report.fail("%s count: want %d, got %d", name, *want, got)
		}
	}
	checkCount("total", expect.Total, result.Total())
	checkCount("normal", expect.Normal, result.NormalCount())
	checkCount("single", expect.Single, result.SingleCount())
	checkCount("error", expect.Error, result.ErrorCount())

	if expect.Keys != nil {
		got := result.Keys()
		if len(got) != len(expect.Keys) {
			report.fail("keys: want %d keys, got %d", len(expect.Keys), len(got))
		} else {
			for i, want := range expect.Keys {
				if got[i] != want {
					report.fail("keys[%d]: want %q, got %q", i, want, got[i])
				}
			}
		}
	}

	for _, fe := range expect.Frames {
		if fe.Seq > result.Total() {
			report.fail("frame %d: no such frame (total %d)", fe.Seq, result.Total())
			continue
		}
		frame := result.Frames[fe.Seq-1]

		if fe.Type != "" {
			want, err := model.ParseFrameType(fe.Type)
			if err != nil {
				report.fail("frame %d: %v", fe.Seq, err)
			} else if frame.Type != want {
				report.fail("frame %d: type want %s, got %s", fe.Seq, want, frame.Type)
			}
		}
		if fe.Key != "" && frame.Key != fe.Key {
			report.fail("frame %d: key want %q, got %q", fe.Seq, fe.Key, frame.Key)
		}
		if fe.Branch != "" && string(frame.Branch) != fe.Branch {
			report.fail("frame %d: branch want %q, got %q", fe.Seq, fe.Branch, frame.Branch)
		}
	}
}

func (r *Report) fail(format string, args ...any) {
	r.Pass = false
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}
