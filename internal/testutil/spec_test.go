package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tslkit/tslkit/internal/model"
)

func TestBuild_AssemblesGraph(t *testing.T) {
	b := NewSpec("find")
	b.Category("Size").
		Choice("Empty").Properties("emptyfile").
		Choice("NotEmpty")
	b.Category("Count").
		Choice("None").If("!emptyfile").IfProperties("noOcc").
		Choice("Many").If("!emptyfile").IfSingle()

	spec, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "find", spec.Name)
	require.Len(t, spec.Categories, 2)
	assert.Equal(t, 2, spec.Properties.Len())

	none := spec.Categories[1].Choices[0]
	require.True(t, none.Conditional())
	assert.Equal(t, "!emptyfile", none.If.String())

	many := spec.Categories[1].Choices[1]
	assert.Equal(t, model.FrameSingle, many.IfFrame)
}

// Conditions may reference properties a later choice declares; interning runs
// over the whole builder before expressions are parsed.
func TestBuild_ForwardReference(t *testing.T) {
	b := NewSpec("fwd")
	b.Category("A").
		Choice("a1").If("late").
		Choice("a2")
	b.Category("B").
		Choice("b1").Properties("late")

	_, err := b.Build()
	require.NoError(t, err)
}

func TestBuild_UndefinedProperty(t *testing.T) {
	b := NewSpec("bad")
	b.Category("A").
		Choice("a1").If("ghost").
		Choice("a2")

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undefined property "ghost"`)
}

func TestBuild_ValidatesGraph(t *testing.T) {
	b := NewSpec("bad")
	b.Category("Empty")

	_, err := b.Build()
	require.Error(t, err)
	assert.True(t, model.IsInvariantError(err))
}

func TestMustBuild_PanicsOnError(t *testing.T) {
	b := NewSpec("bad")
	b.Category("Empty")

	assert.Panics(t, func() { b.MustBuild() })
}
