package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tslkit/tslkit/internal/model"
)

const sampleSrc = `# occurrence search model

Size:
    empty.      [property emptyfile]
    not empty.

Count:
    none.       [if !emptyfile] [property noOcc]
    one.        [if !emptyfile]
    many.       [if !emptyfile] [single]

Junk:           # no choices, dropped with a warning

Mode:
    quiet.
    verbose.    [error]
`

func TestParse_Sample(t *testing.T) {
	spec, warnings, err := Parse([]byte(sampleSrc), "sample.tsl")
	require.NoError(t, err)

	require.Len(t, spec.Categories, 3, "empty category must be dropped")
	assert.Equal(t, "Size", spec.Categories[0].Name)
	assert.Equal(t, "Count", spec.Categories[1].Name)
	assert.Equal(t, "Mode", spec.Categories[2].Name)
	assert.Equal(t, 7, spec.ChoiceCount())
	assert.Equal(t, 2, spec.Properties.Len())

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"Junk"`)

	empty := spec.Categories[0].Choices[0]
	assert.Equal(t, "empty", empty.Name)
	require.Len(t, empty.Properties, 1)
	assert.Equal(t, "emptyfile", empty.Properties[0].Name)
	assert.False(t, empty.Conditional())

	none := spec.Categories[1].Choices[0]
	require.True(t, none.Conditional())
	assert.Equal(t, "!emptyfile", none.If.String())
	require.Len(t, none.IfProperties, 1)
	assert.Equal(t, "noOcc", none.IfProperties[0].Name)
	assert.Equal(t, model.FrameNormal, none.Frame)

	// A frame marker after [if] belongs to the if branch, not the base.
	many := spec.Categories[1].Choices[2]
	assert.Equal(t, model.FrameNormal, many.Frame)
	assert.Equal(t, model.FrameSingle, many.IfFrame)

	verbose := spec.Categories[2].Choices[1]
	assert.Equal(t, model.FrameError, verbose.Frame)
}

func TestParse_PropertiesSharedAcrossCategories(t *testing.T) {
	src := `A:
    a1.  [property p]
B:
    b1.  [property p, q]
`
	spec, _, err := Parse([]byte(src), "t.tsl")
	require.NoError(t, err)

	assert.Equal(t, 2, spec.Properties.Len())
	require.Same(t,
		spec.Categories[0].Choices[0].Properties[0],
		spec.Categories[1].Choices[0].Properties[0],
		"the same name must resolve to one shared cell")
}

// Constraints may reference properties defined later in the file; interning
// runs over the whole file before expressions are resolved.
func TestParse_ForwardPropertyReference(t *testing.T) {
	src := `A:
    a1.  [if late]
    a2.
B:
    b1.  [property late]
`
	spec, _, err := Parse([]byte(src), "t.tsl")
	require.NoError(t, err)
	assert.Equal(t, "late", spec.Categories[0].Choices[0].If.String())
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"choice without dot", "A:\n  a1\n", "must end with '.'"},
		{"choice outside category", "a1.\n", "outside any category"},
		{"nameless category", ":\n", "no name"},
		{"unmatched bracket", "A:\n  a1. [property p\n", "unmatched '['"},
		{"text between annotations", "A:\n  a1. [single] junk\n", "between annotations"},
		{"unknown keyword", "A:\n  a1. [sometimes p]\n", `unknown constraint keyword "sometimes"`},
		{"property without names", "A:\n  a1. [property]\n", "names no properties"},
		{"single with argument", "A:\n  a1. [single now]\n", "takes no argument"},
		{"duplicate frame marker", "A:\n  a1. [single] [error]\n", "duplicate frame marker"},
		{"else without if", "A:\n  a1. [else]\n", "[else] without a preceding [if]"},
		{"duplicate if", "A:\n  a1. [if p] [if p] [property p]\n", "duplicate [if]"},
		{"duplicate else", "A:\n  a1. [if p] [else] [else]\n  a2. [property p]\n", "duplicate [else]"},
		{"if without expression", "A:\n  a1. [if]\n", "[if] has no expression"},
		{"undefined property", "A:\n  a1. [if ghost]\n  a2.\n", `undefined property "ghost"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tc.src), "bad.tsl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestParse_ErrorCarriesPosition(t *testing.T) {
	_, _, err := Parse([]byte("A:\n  a1\n"), "bad.tsl")
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad.tsl", pe.File)
	assert.Equal(t, 2, pe.Line)
	assert.True(t, IsParseError(err))
}

func TestParse_CommentsAndBlankLines(t *testing.T) {
	src := "# header comment\n\nA:\n  # full-line comment\n  a1.  # trailing comment\n"

	spec, _, err := Parse([]byte(src), "t.tsl")
	require.NoError(t, err)
	require.Len(t, spec.Categories, 1)
	assert.Equal(t, "a1", spec.Categories[0].Choices[0].Name)
}

func TestParseFile_NameFromBasename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "find.tsl")
	require.NoError(t, os.WriteFile(path, []byte(sampleSrc), 0o644))

	spec, warnings, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "find", spec.Name)
	assert.Len(t, warnings, 1)
}

func TestParseFile_Missing(t *testing.T) {
	_, _, err := ParseFile(filepath.Join(t.TempDir(), "absent.tsl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read specification")
}
