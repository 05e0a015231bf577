package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares the plain frame listing
// against a golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for the listing's bytes: frame order,
// keys, and sequence numbers are observable contract, so any diff here is a
// behavior change, not cosmetics.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Report, error) {
	t.Helper()

	report, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(report.Result.Render()))

	return report, nil
}
