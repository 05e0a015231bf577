package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with the given args and returns stdout and the
// command error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func specPath() string {
	return filepath.Join("testdata", "find.tsl")
}

func TestGenerate_Text(t *testing.T) {
	out, err := execute(t, "generate", specPath(), "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "4 frames (4 normal, 0 single, 0 error)")
	assert.Contains(t, out, "Frame 1 [normal] key=1.0")
	assert.Contains(t, out, "  Size: empty\n  Count: <none>\n")
	assert.Contains(t, out, "Frame 4 [normal] key=2.3")
	assert.Contains(t, out, "  Count: many\n")
}

func TestGenerate_JSON(t *testing.T) {
	out, err := execute(t, "generate", specPath(), "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   generateData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, specPath(), resp.Data.Source)
	assert.Empty(t, resp.Data.RunID, "no --db, no run id")
	assert.Equal(t, 4, resp.Data.Total)
	assert.Equal(t, 4, resp.Data.Normal)
	require.Len(t, resp.Data.Frames, 4)
	assert.Equal(t, "1.0", resp.Data.Frames[0].Key)
	assert.Equal(t, "normal", resp.Data.Frames[0].Type)
}

func TestGenerate_MissingSpec(t *testing.T) {
	out, err := execute(t, "generate", filepath.Join(t.TempDir(), "absent.tsl"), "--no-color")
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [parse_error]")
}

func TestGenerate_MaxStatesExceeded(t *testing.T) {
	out, err := execute(t, "generate", specPath(), "--max-states", "2")
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [generate_error]")
}

func TestGenerate_PersistAndShow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "generate", specPath(), "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data generateData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotEmpty(t, resp.Data.RunID)

	// runs lists the persisted run.
	listOut, err := execute(t, "runs", "--db", db, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, listOut, resp.Data.RunID)
	assert.Contains(t, listOut, "4 frames (4 normal, 0 single, 0 error)")

	// show renders it back.
	showOut, err := execute(t, "show", resp.Data.RunID, "--db", db, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, showOut, "Run "+resp.Data.RunID)
	assert.Contains(t, showOut, "Frame 1 [normal] key=1.0")

	// show --type filters.
	filtered, err := execute(t, "show", resp.Data.RunID, "--db", db, "--format", "json", "--type", "single")
	require.NoError(t, err)
	var showResp struct {
		Data generateData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(filtered), &showResp))
	assert.Empty(t, showResp.Data.Frames)
}

func TestShow_UnknownRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	_, err := execute(t, "generate", specPath(), "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "show", "no-such-run", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [store_error]")
}

func TestRuns_EmptyStore(t *testing.T) {
	out, err := execute(t, "runs", "--db", filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	assert.Equal(t, "no runs\n", out)
}

func TestValidate_Text(t *testing.T) {
	out, err := execute(t, "validate", specPath())
	require.NoError(t, err)
	assert.Contains(t, out, "2 categories, 5 choices, 2 properties")
}

func TestValidate_JSON(t *testing.T) {
	out, err := execute(t, "validate", specPath(), "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   validateData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Categories)
	assert.Equal(t, 5, resp.Data.Choices)
	assert.Equal(t, 2, resp.Data.Properties)
}

func TestRoot_RejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "validate", specPath(), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
