package model

import "fmt"

// FrameType classifies the frame a choice produces.
type FrameType int

const (
	// FrameNormal choices participate in the exhaustive cross-category
	// combination phase.
	FrameNormal FrameType = iota

	// FrameSingle choices produce exactly one targeted frame and are
	// excluded from normal combinations.
	FrameSingle

	// FrameError choices behave like single frames but mark the case as an
	// expected failure.
	FrameError
)

// String returns the lowercase name used in renderings and persisted runs.
func (t FrameType) String() string {
	switch t {
	case FrameNormal:
		return "normal"
	case FrameSingle:
		return "single"
	case FrameError:
		return "error"
	default:
		return fmt.Sprintf("frametype(%d)", int(t))
	}
}

// ParseFrameType converts a persisted or user-supplied frame type name.
func ParseFrameType(s string) (FrameType, error) {
	switch s {
	case "normal":
		return FrameNormal, nil
	case "single":
		return FrameSingle, nil
	case "error":
		return FrameError, nil
	default:
		return FrameNormal, fmt.Errorf("unknown frame type %q", s)
	}
}

// Choice is one option within a category.
//
// Properties are the regular properties set when an unconditional choice is
// taken. If carries the optional conditional constraint; when present,
// IfProperties (and ElseProperties, when HasElse) replace the regular list
// for the taken branch, and IfFrame/ElseFrame override Frame for that branch.
//
// Invariant: HasElse, IfFrame, and ElseFrame are meaningful only when If is
// non-nil. Specification.Validate enforces this.
type Choice struct {
	Name           string
	Properties     []*Property
	If             Expr
	IfProperties   []*Property
	ElseProperties []*Property
	HasElse        bool
	Frame          FrameType
	IfFrame        FrameType
	ElseFrame      FrameType
}

// Conditional reports whether the choice carries a constraint expression.
func (c *Choice) Conditional() bool {
	return c.If != nil
}

// Category is a partition dimension: a named, ordered, non-empty list of
// mutually exclusive choices. Empty categories are dropped by the front ends
// and never reach the generator.
type Category struct {
	Name    string
	Choices []*Choice
}

// Specification is the fully validated object graph handed to the generator:
// categories in declaration order sharing one property table.
type Specification struct {
	Name       string
	Categories []*Category
	Properties *Table
}

// ChoiceCount returns the total number of choices across all categories.
func (s *Specification) ChoiceCount() int {
	n := 0
	for _, cat := range s.Categories {
		n += len(cat.Choices)
	}
	return n
}
