package generator

import (
	"fmt"
	"strings"

	"github.com/tslkit/tslkit/internal/model"
)

// Branch identifies which side of a conditional choice produced a
// single/error frame.
type Branch string

const (
	// BranchNone marks frames not produced by a conditional branch.
	BranchNone Branch = ""

	// BranchIf marks frames produced by the if side of a conditional.
	BranchIf Branch = "if"

	// BranchElse marks frames produced by the else side of a conditional.
	BranchElse Branch = "else"
)

// NoSelection is the rendering of a category that contributes no choice to a
// normal frame.
const NoSelection = "<none>"

// Entry pairs a category with the choice selected for it, or with no
// selection when no choice in the category was eligible.
type Entry struct {
	Category string `json:"category"`
	Choice   string `json:"choice,omitempty"`
}

// Selected reports whether the entry carries a choice.
func (e Entry) Selected() bool {
	return e.Choice != ""
}

// Frame is one generated test case.
//
// Normal frames carry one entry per category (selection or none) and a Key of
// dot-joined 1-based choice indices, 0 standing for "no selection". Single and
// error frames carry exactly the one (category, choice) entry that produced
// them and, for conditional choices, the branch that resolved.
type Frame struct {
	Seq     int             `json:"seq"`
	Type    model.FrameType `json:"-"`
	Key     string          `json:"key,omitempty"`
	Branch  Branch          `json:"branch,omitempty"`
	Entries []Entry         `json:"entries"`
}

// TypeName returns the frame type as its persisted lowercase name.
func (f Frame) TypeName() string {
	return f.Type.String()
}

// Result is the ordered frame list produced by one Generate call, plus
// counting and filtering views. It holds no decision logic.
type Result struct {
	SpecName string
	Frames   []Frame
}

// Total returns the number of generated frames.
func (r *Result) Total() int {
	return len(r.Frames)
}

// CountByType returns the number of frames of the given type.
func (r *Result) CountByType(t model.FrameType) int {
	n := 0
	for _, f := range r.Frames {
		if f.Type == t {
			n++
		}
	}
	return n
}

// NormalCount returns the number of normal frames.
func (r *Result) NormalCount() int { return r.CountByType(model.FrameNormal) }

// SingleCount returns the number of single frames.
func (r *Result) SingleCount() int { return r.CountByType(model.FrameSingle) }

// ErrorCount returns the number of error frames.
func (r *Result) ErrorCount() int { return r.CountByType(model.FrameError) }

// ByType returns the frames of the given type, preserving generation order.
func (r *Result) ByType(t model.FrameType) []Frame {
	var out []Frame
	for _, f := range r.Frames {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// Keys returns the keys of all normal frames in generation order.
func (r *Result) Keys() []string {
	var keys []string
	for _, f := range r.Frames {
		if f.Type == model.FrameNormal {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// Render produces the deterministic plain-text frame listing. The same
// Result always renders to the same bytes; golden tests and the run store
// both depend on that.
func (r *Result) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d frames (%d normal, %d single, %d error)\n",
		r.Total(), r.NormalCount(), r.SingleCount(), r.ErrorCount())

	for _, f := range r.Frames {
		b.WriteString("\n")
		b.WriteString(RenderFrame(f))
	}

	return b.String()
}

// RenderFrame renders a single frame in the plain listing format.
func RenderFrame(f Frame) string {
	var b strings.Builder

	switch f.Type {
	case model.FrameNormal:
		fmt.Fprintf(&b, "Frame %d [%s] key=%s\n", f.Seq, f.Type, f.Key)
		for _, e := range f.Entries {
			choice := e.Choice
			if !e.Selected() {
				choice = NoSelection
			}
			fmt.Fprintf(&b, "  %s: %s\n", e.Category, choice)
		}

	default:
		// Single/error frames carry exactly one entry.
		e := f.Entries[0]
		if f.Branch != BranchNone {
			fmt.Fprintf(&b, "Frame %d [%s] %s: %s (%s branch)\n",
				f.Seq, f.Type, e.Category, e.Choice, f.Branch)
		} else {
			fmt.Fprintf(&b, "Frame %d [%s] %s: %s\n", f.Seq, f.Type, e.Category, e.Choice)
		}
	}

	return b.String()
}
