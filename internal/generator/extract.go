package generator

import (
	"github.com/tslkit/tslkit/internal/model"
)

// extractTargeted emits single and error frames, category order then choice
// order. It runs strictly before normal-frame enumeration and its frames are
// numbered first.
//
// Unconditionally tagged choices emit one frame with no branch annotation.
// Conditional choices are evaluated against a simulated baseline in which
// only the regular properties of unconditional choices are true, modeling
// "only this conditional choice matters"; the branch that resolves emits a
// frame when its frame type is single or error. The table is reset after
// each conditional choice so extractions never leak into one another.
func (g *Generator) extractTargeted(result *Result) {
	for _, cat := range g.spec.Categories {
		for _, ch := range cat.Choices {
			if ch.Frame != model.FrameNormal {
				result.Frames = append(result.Frames, Frame{
					Seq:     len(result.Frames) + 1,
					Type:    ch.Frame,
					Entries: []Entry{{Category: cat.Name, Choice: ch.Name}},
				})
				continue
			}

			if !ch.Conditional() {
				continue
			}

			g.setBaseline()
			taken := ch.If.Eval()
			g.spec.Properties.Reset()

			switch {
			case taken && ch.IfFrame != model.FrameNormal:
				result.Frames = append(result.Frames, Frame{
					Seq:     len(result.Frames) + 1,
					Type:    ch.IfFrame,
					Branch:  BranchIf,
					Entries: []Entry{{Category: cat.Name, Choice: ch.Name}},
				})

			case !taken && ch.HasElse && ch.ElseFrame != model.FrameNormal:
				result.Frames = append(result.Frames, Frame{
					Seq:     len(result.Frames) + 1,
					Type:    ch.ElseFrame,
					Branch:  BranchElse,
					Entries: []Entry{{Category: cat.Name, Choice: ch.Name}},
				})
			}
		}
	}
}

// setBaseline sets true every regular property belonging to choices with no
// conditional expression, across all categories. All other properties stay
// false (the caller resets the table between evaluations).
func (g *Generator) setBaseline() {
	for _, cat := range g.spec.Categories {
		for _, ch := range cat.Choices {
			if ch.Conditional() {
				continue
			}
			for _, p := range ch.Properties {
				p.Value = true
			}
		}
	}
}
