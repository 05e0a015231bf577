package specfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_TextFormat(t *testing.T) {
	path := write(t, "mode.tsl", "Mode:\n  quiet.\n  verbose. [error]\n")

	spec, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mode", spec.Name)
	assert.Equal(t, 2, spec.ChoiceCount())
}

func TestLoad_CUEFormat(t *testing.T) {
	src := `specification: {
	categories: [{
		name: "Mode"
		choices: [{name: "quiet"}, {name: "verbose", frame: "error"}]
	}]
}
`
	path := write(t, "mode.cue", src)

	spec, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mode", spec.Name)
	assert.Equal(t, 2, spec.ChoiceCount())
}

func TestLoad_ExtensionCaseInsensitive(t *testing.T) {
	src := `specification: {
	categories: [{name: "A", choices: [{name: "a1"}]}]
}
`
	path := write(t, "spec.CUE", src)

	spec, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, spec.ChoiceCount())
}
