package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every conformance scenario under testdata/scenarios and
// compares the plain frame listing against its golden file.
func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarioDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			report, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, report.Pass, "failures: %s", strings.Join(report.Failures, "; "))
		})
	}
}

func TestLoadScenario_ResolvesSpecRelative(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "find.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "find", s.Name)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "..", "specs", "find.tsl"), s.Spec)
	require.NotNil(t, s.Expect.Total)
	assert.Equal(t, 4, *s.Expect.Total)
}

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, "name: x\nspec: x.tsl\nexpects:\n  total: 1\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_RequiresNameAndSpec(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "spec: x.tsl\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	_, err = LoadScenario(writeScenario(t, "name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec is required")
}

func TestLoadScenario_RejectsBadFrameSeq(t *testing.T) {
	path := writeScenario(t, "name: x\nspec: x.tsl\nexpect:\n  frames:\n    - seq: 0\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seq must be >= 1")
}

func TestRun_ReportsExpectationFailures(t *testing.T) {
	wrongTotal := 99
	scenario := &Scenario{
		Name: "wrong",
		Spec: filepath.Join("testdata", "specs", "find.tsl"),
		Expect: Expectation{
			Total: &wrongTotal,
			Keys:  []string{"1.0"},
			Frames: []FrameExpectation{
				{Seq: 1, Type: "error"},
				{Seq: 50},
			},
		},
	}

	report, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, report.Pass)
	require.Len(t, report.Failures, 4)
	assert.Contains(t, report.Failures[0], "total count: want 99, got 4")
	assert.Contains(t, report.Failures[1], "keys: want 1 keys, got 4")
	assert.Contains(t, report.Failures[2], "type want error, got normal")
	assert.Contains(t, report.Failures[3], "no such frame")
}

func TestRun_MissingSpecIsAnError(t *testing.T) {
	scenario := &Scenario{Name: "missing", Spec: filepath.Join(t.TempDir(), "absent.tsl")}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load spec")
}

func TestRun_MaxStatesAborts(t *testing.T) {
	scenario := &Scenario{
		Name:      "budget",
		Spec:      filepath.Join("testdata", "specs", "find.tsl"),
		MaxStates: 1,
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate")
}
