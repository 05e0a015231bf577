// Package testutil provides compact builders for category-partition
// specifications in tests.
//
// Builders defer constraint parsing to Build time so a condition may
// reference properties declared by later choices, matching the two-pass
// resolution of the real front ends.
package testutil

import (
	"fmt"

	"github.com/tslkit/tslkit/internal/model"
	"github.com/tslkit/tslkit/internal/parser"
)

// SpecBuilder accumulates categories and choices, then assembles the
// validated object graph.
type SpecBuilder struct {
	name       string
	categories []*CategoryBuilder
}

// CategoryBuilder accumulates the choices of one category.
type CategoryBuilder struct {
	name    string
	choices []*ChoiceBuilder
}

// ChoiceBuilder configures one choice fluently:
//
//	b.Category("Count").
//		Choice("None").If("!emptyfile").IfProperties("noOcc")
type ChoiceBuilder struct {
	cat *CategoryBuilder

	name      string
	props     []string
	frame     model.FrameType
	ifSrc     string
	ifProps   []string
	ifFrame   model.FrameType
	hasElse   bool
	elseProps []string
	elseFrame model.FrameType
}

// NewSpec creates a builder for a named specification.
func NewSpec(name string) *SpecBuilder {
	return &SpecBuilder{name: name}
}

// Category opens a new category. Choices added through the returned builder
// chain belong to it.
func (b *SpecBuilder) Category(name string) *CategoryBuilder {
	cat := &CategoryBuilder{name: name}
	b.categories = append(b.categories, cat)
	return cat
}

// Choice adds a choice to the category.
func (c *CategoryBuilder) Choice(name string) *ChoiceBuilder {
	ch := &ChoiceBuilder{cat: c, name: name}
	c.choices = append(c.choices, ch)
	return ch
}

// Choice adds a sibling choice to the same category.
func (ch *ChoiceBuilder) Choice(name string) *ChoiceBuilder {
	return ch.cat.Choice(name)
}

// Properties sets the choice's regular properties.
func (ch *ChoiceBuilder) Properties(names ...string) *ChoiceBuilder {
	ch.props = append(ch.props, names...)
	return ch
}

// Single tags the choice's base frame type single.
func (ch *ChoiceBuilder) Single() *ChoiceBuilder {
	ch.frame = model.FrameSingle
	return ch
}

// Error tags the choice's base frame type error.
func (ch *ChoiceBuilder) Error() *ChoiceBuilder {
	ch.frame = model.FrameError
	return ch
}

// If attaches a conditional constraint in source syntax; it is parsed at
// Build time against the full property table.
func (ch *ChoiceBuilder) If(src string) *ChoiceBuilder {
	ch.ifSrc = src
	return ch
}

// IfProperties sets the properties flipped when the condition holds.
func (ch *ChoiceBuilder) IfProperties(names ...string) *ChoiceBuilder {
	ch.ifProps = append(ch.ifProps, names...)
	return ch
}

// IfSingle tags the if branch single.
func (ch *ChoiceBuilder) IfSingle() *ChoiceBuilder {
	ch.ifFrame = model.FrameSingle
	return ch
}

// IfError tags the if branch error.
func (ch *ChoiceBuilder) IfError() *ChoiceBuilder {
	ch.ifFrame = model.FrameError
	return ch
}

// Else marks the choice as having an else branch.
func (ch *ChoiceBuilder) Else() *ChoiceBuilder {
	ch.hasElse = true
	return ch
}

// ElseProperties sets the else branch properties (implies Else).
func (ch *ChoiceBuilder) ElseProperties(names ...string) *ChoiceBuilder {
	ch.hasElse = true
	ch.elseProps = append(ch.elseProps, names...)
	return ch
}

// ElseSingle tags the else branch single (implies Else).
func (ch *ChoiceBuilder) ElseSingle() *ChoiceBuilder {
	ch.hasElse = true
	ch.elseFrame = model.FrameSingle
	return ch
}

// ElseError tags the else branch error (implies Else).
func (ch *ChoiceBuilder) ElseError() *ChoiceBuilder {
	ch.hasElse = true
	ch.elseFrame = model.FrameError
	return ch
}

// Build assembles and validates the graph.
func (b *SpecBuilder) Build() (*model.Specification, error) {
	table := model.NewTable()
	for _, cat := range b.categories {
		for _, ch := range cat.choices {
			for _, lists := range [][]string{ch.props, ch.ifProps, ch.elseProps} {
				for _, p := range lists {
					table.Intern(p)
				}
			}
		}
	}

	resolve := func(name string) (*model.Property, error) {
		p, ok := table.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("undefined property %q", name)
		}
		return p, nil
	}

	spec := &model.Specification{Name: b.name, Properties: table}
	for _, catb := range b.categories {
		cat := &model.Category{Name: catb.name}
		for _, chb := range catb.choices {
			ch := &model.Choice{
				Name:       chb.name,
				Frame:      chb.frame,
				HasElse:    chb.hasElse,
				Properties: internAll(table, chb.props),
			}
			if chb.ifSrc != "" {
				expr, err := parser.ParseExpr(chb.ifSrc, resolve)
				if err != nil {
					return nil, fmt.Errorf("choice %q: %w", chb.name, err)
				}
				ch.If = expr
				ch.IfProperties = internAll(table, chb.ifProps)
				ch.ElseProperties = internAll(table, chb.elseProps)
				ch.IfFrame = chb.ifFrame
				ch.ElseFrame = chb.elseFrame
			}
			cat.Choices = append(cat.Choices, ch)
		}
		spec.Categories = append(spec.Categories, cat)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// MustBuild assembles the graph, panicking on error. For tests where the
// specification is a fixture, not the thing under test.
func (b *SpecBuilder) MustBuild() *model.Specification {
	spec, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("testutil: build specification: %v", err))
	}
	return spec
}

func internAll(table *model.Table, names []string) []*model.Property {
	props := make([]*model.Property, len(names))
	for i, name := range names {
		props[i] = table.Intern(name)
	}
	return props
}
