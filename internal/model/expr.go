package model

import "fmt"

// Expr is a boolean constraint formula over properties.
//
// The tree is an explicit tagged variant: Leaf (a property reference with an
// optional negation folded in), Not (a negated group), And, and Or. Each node
// exclusively owns its children; there are no cycles.
//
// Evaluation reads Property.Value and nothing else. It never mutates state,
// so operand order and short-circuiting are unobservable.
//
// Precedence is fixed by the front end at construction time: Or is the
// outermost, lowest-precedence split; And binds tighter; negation binds to
// the immediately following atom or parenthesized group. "A && B || C" is
// therefore Or(And(A, B), C).
type Expr interface {
	// Eval returns the truth value of the formula under the current
	// property state.
	Eval() bool

	// String renders the formula in source syntax. Parentheses are emitted
	// where needed to round-trip the tree's grouping.
	String() string
}

// Leaf references a single property, optionally negated.
type Leaf struct {
	Prop    *Property
	Negated bool
}

// Eval returns the property value XOR the negation flag.
func (l *Leaf) Eval() bool {
	return l.Prop.Value != l.Negated
}

func (l *Leaf) String() string {
	if l.Negated {
		return "!" + l.Prop.Name
	}
	return l.Prop.Name
}

// Not negates a parenthesized sub-expression, e.g. "!(a || b)".
// Bare negated properties are represented as Leaf{Negated: true} instead.
type Not struct {
	Inner Expr
}

func (n *Not) Eval() bool {
	return !n.Inner.Eval()
}

func (n *Not) String() string {
	return fmt.Sprintf("!(%s)", n.Inner.String())
}

// And is conjunction of two operands.
type And struct {
	Left, Right Expr
}

func (a *And) Eval() bool {
	// Both sides are evaluated; pure evaluation makes short-circuiting
	// unobservable either way.
	l := a.Left.Eval()
	r := a.Right.Eval()
	return l && r
}

func (a *And) String() string {
	return fmt.Sprintf("%s && %s", operandString(a.Left, true), operandString(a.Right, true))
}

// Or is disjunction of two operands.
type Or struct {
	Left, Right Expr
}

func (o *Or) Eval() bool {
	l := o.Left.Eval()
	r := o.Right.Eval()
	return l || r
}

func (o *Or) String() string {
	return fmt.Sprintf("%s || %s", operandString(o.Left, false), operandString(o.Right, false))
}

// operandString parenthesizes an Or operand appearing under an And, so the
// rendered source re-parses to the same tree.
func operandString(e Expr, underAnd bool) string {
	if _, ok := e.(*Or); ok && underAnd {
		return fmt.Sprintf("(%s)", e.String())
	}
	return e.String()
}
