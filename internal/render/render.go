// Package render draws frame listings for terminals.
//
// The deterministic plain listing lives on generator.Result; this package
// only layers color over it. With color disabled the output is byte-for-byte
// the plain rendering, which is what golden tests and the run store use.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tslkit/tslkit/internal/generator"
	"github.com/tslkit/tslkit/internal/model"
)

var (
	styleNormal = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	styleSingle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	styleKey    = lipgloss.NewStyle().Faint(true)
	styleHeader = lipgloss.NewStyle().Bold(true)
)

// Renderer renders results, optionally colorized.
type Renderer struct {
	Color bool
}

// Result renders the full frame listing.
func (r Renderer) Result(res *generator.Result) string {
	if !r.Color {
		return res.Render()
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render(fmt.Sprintf("%d frames (%d normal, %d single, %d error)",
		res.Total(), res.NormalCount(), res.SingleCount(), res.ErrorCount())))
	b.WriteString("\n")

	for _, f := range res.Frames {
		b.WriteString("\n")
		b.WriteString(r.Frame(f))
	}

	return b.String()
}

// Frame renders a single frame.
func (r Renderer) Frame(f generator.Frame) string {
	if !r.Color {
		return generator.RenderFrame(f)
	}

	badge := typeStyle(f.Type).Render("[" + f.Type.String() + "]")

	var b strings.Builder
	switch f.Type {
	case model.FrameNormal:
		fmt.Fprintf(&b, "Frame %d %s %s\n", f.Seq, badge, styleKey.Render("key="+f.Key))
		for _, e := range f.Entries {
			choice := e.Choice
			if !e.Selected() {
				choice = styleKey.Render(generator.NoSelection)
			}
			fmt.Fprintf(&b, "  %s: %s\n", e.Category, choice)
		}

	default:
		e := f.Entries[0]
		if f.Branch != generator.BranchNone {
			fmt.Fprintf(&b, "Frame %d %s %s: %s %s\n",
				f.Seq, badge, e.Category, e.Choice, styleKey.Render("("+string(f.Branch)+" branch)"))
		} else {
			fmt.Fprintf(&b, "Frame %d %s %s: %s\n", f.Seq, badge, e.Category, e.Choice)
		}
	}

	return b.String()
}

func typeStyle(t model.FrameType) lipgloss.Style {
	switch t {
	case model.FrameSingle:
		return styleSingle
	case model.FrameError:
		return styleError
	default:
		return styleNormal
	}
}
