package model

import (
	"errors"
	"fmt"
)

// InvariantError reports a structural invariant violated by the graph a
// front end handed to the generator. These are contract violations, not
// recoverable input problems: generation aborts before producing any frame.
type InvariantError struct {
	// Code identifies the violated invariant.
	Code InvariantCode

	// Category and Choice locate the offending node. Choice may be empty
	// for category-level violations.
	Category string
	Choice   string

	// Message is a human-readable description.
	Message string
}

// InvariantCode categorizes invariant violations.
type InvariantCode string

const (
	// ErrCodeEmptyCategory indicates a category with no choices reached the
	// generator. Front ends must drop empty categories.
	ErrCodeEmptyCategory InvariantCode = "EMPTY_CATEGORY"

	// ErrCodeElseWithoutIf indicates an else branch on a choice with no
	// conditional expression.
	ErrCodeElseWithoutIf InvariantCode = "ELSE_WITHOUT_IF"

	// ErrCodeBranchFrameWithoutIf indicates a branch frame type set on a
	// choice with no conditional expression.
	ErrCodeBranchFrameWithoutIf InvariantCode = "BRANCH_FRAME_WITHOUT_IF"

	// ErrCodeBranchPropsWithoutIf indicates branch property lists on a
	// choice with no conditional expression.
	ErrCodeBranchPropsWithoutIf InvariantCode = "BRANCH_PROPS_WITHOUT_IF"

	// ErrCodeNoProperties indicates a specification without a property
	// table.
	ErrCodeNoProperties InvariantCode = "NO_PROPERTY_TABLE"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	switch {
	case e.Category != "" && e.Choice != "":
		return fmt.Sprintf("%s: %s (category=%s, choice=%s)", e.Code, e.Message, e.Category, e.Choice)
	case e.Category != "":
		return fmt.Sprintf("%s: %s (category=%s)", e.Code, e.Message, e.Category)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsInvariantError reports whether err is (or wraps) an InvariantError.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// Validate checks the structural invariants the generator relies on.
// It returns the first violation found, walking categories and choices in
// declaration order, or nil if the graph is well formed.
func (s *Specification) Validate() error {
	if s.Properties == nil {
		return &InvariantError{
			Code:    ErrCodeNoProperties,
			Message: "specification has no property table",
		}
	}

	for _, cat := range s.Categories {
		if len(cat.Choices) == 0 {
			return &InvariantError{
				Code:     ErrCodeEmptyCategory,
				Category: cat.Name,
				Message:  "category has no choices",
			}
		}

		for _, ch := range cat.Choices {
			if ch.Conditional() {
				continue
			}
			if ch.HasElse {
				return &InvariantError{
					Code:     ErrCodeElseWithoutIf,
					Category: cat.Name,
					Choice:   ch.Name,
					Message:  "else branch without a conditional expression",
				}
			}
			if ch.IfFrame != FrameNormal || ch.ElseFrame != FrameNormal {
				return &InvariantError{
					Code:     ErrCodeBranchFrameWithoutIf,
					Category: cat.Name,
					Choice:   ch.Name,
					Message:  "branch frame type without a conditional expression",
				}
			}
			if len(ch.IfProperties) > 0 || len(ch.ElseProperties) > 0 {
				return &InvariantError{
					Code:     ErrCodeBranchPropsWithoutIf,
					Category: cat.Name,
					Choice:   ch.Name,
					Message:  "branch properties without a conditional expression",
				}
			}
		}
	}

	return nil
}
