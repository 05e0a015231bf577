package generator

import (
	"strconv"
	"strings"

	"github.com/tslkit/tslkit/internal/model"
)

// selection records the choice fixed for one category along the current
// search path. index is 1-based; 0 means "no selection".
type selection struct {
	choice *model.Choice
	index  int
}

// search carries the mutable state of one normal-frame enumeration: the
// per-category selections along the current path, the visited-state counter
// for the optional step budget, and the result under construction.
type search struct {
	gen        *Generator
	selections []selection
	steps      int
	result     *Result
}

// enumerateNormal runs the depth-first backtracking search over categories
// in declaration order. On return, successful or not, every property flipped
// along the way has been reverted.
func (g *Generator) enumerateNormal(result *Result) error {
	s := &search{
		gen:        g,
		selections: make([]selection, len(g.spec.Categories)),
		result:     result,
	}
	return s.descend(0)
}

// descend fixes a choice for category i and recurses into category i+1.
//
// Choices are tried in declaration order. Eligibility is decided by
// selectableBranch before any mutation; for an eligible choice the branch's
// properties are flipped true with exact change recording, the recursion
// proceeds, and the flips are reverted before the next sibling is tried.
// If no choice in the category was eligible the category contributes a
// "no selection" placeholder and the recursion proceeds unchanged.
func (s *search) descend(i int) error {
	s.steps++
	if budget := s.gen.stepBudget; budget > 0 && s.steps > budget {
		return &BudgetError{Steps: s.steps, Limit: budget}
	}

	cats := s.gen.spec.Categories
	if i == len(cats) {
		s.materialize()
		return nil
	}

	selected := false
	for idx, ch := range cats[i].Choices {
		props, ok := selectableBranch(ch)
		if !ok {
			continue
		}
		selected = true

		flipped := flipTrue(props)
		s.selections[i] = selection{choice: ch, index: idx + 1}

		err := s.descend(i + 1)

		// Revert exactly the properties this choice changed, and clear the
		// selection, before trying the next sibling or unwinding an error.
		for _, p := range flipped {
			p.Value = false
		}
		s.selections[i] = selection{}

		if err != nil {
			return err
		}
	}

	if !selected {
		s.selections[i] = selection{}
		return s.descend(i + 1)
	}

	return nil
}

// selectableBranch decides, without mutating anything, whether the choice can
// participate in a normal combination under the live property state. It
// returns the property list the taken branch would set.
//
// Single/error-tagged choices were emitted during extraction and are excluded
// from the combination space. A conditional choice whose taken branch carries
// a non-normal frame type is likewise excluded, as is a false condition with
// no else fallback.
func selectableBranch(ch *model.Choice) ([]*model.Property, bool) {
	if ch.Frame != model.FrameNormal {
		return nil, false
	}

	if !ch.Conditional() {
		return ch.Properties, true
	}

	if ch.If.Eval() {
		if ch.IfFrame != model.FrameNormal {
			return nil, false
		}
		return ch.IfProperties, true
	}

	if !ch.HasElse || ch.ElseFrame != model.FrameNormal {
		return nil, false
	}
	return ch.ElseProperties, true
}

// flipTrue sets the given properties true and returns exactly those that
// changed from false, for exact rollback.
func flipTrue(props []*model.Property) []*model.Property {
	var flipped []*model.Property
	for _, p := range props {
		if !p.Value {
			p.Value = true
			flipped = append(flipped, p)
		}
	}
	return flipped
}

// materialize appends one normal frame for the current selections: an entry
// per category (selection or none) and the dot-joined key of 1-based choice
// indices, 0 standing for "no selection". Sequence numbering continues the
// count started by single/error extraction.
func (s *search) materialize() {
	cats := s.gen.spec.Categories

	entries := make([]Entry, len(cats))
	keyParts := make([]string, len(cats))
	for i, cat := range cats {
		sel := s.selections[i]
		entries[i] = Entry{Category: cat.Name}
		if sel.choice != nil {
			entries[i].Choice = sel.choice.Name
		}
		keyParts[i] = strconv.Itoa(sel.index)
	}

	s.result.Frames = append(s.result.Frames, Frame{
		Seq:     len(s.result.Frames) + 1,
		Type:    model.FrameNormal,
		Key:     strings.Join(keyParts, "."),
		Entries: entries,
	})
}
