// Package segment expands a flat annotated text run into render fragments.
//
// Mark and inline-decorator boundaries split the text into the minimal set
// of disjoint runs. Each run becomes a text leaf wrapped by its active
// marks, with decorator fragments wrapping the result or flanking it as
// siblings. The nesting precedence is an explicit invariant: when a
// decorator and marks apply to the same run, the decorator wraps the marks,
// never the reverse.
package segment

import (
	"sort"

	"github.com/dshills/weft/internal/core"
	"github.com/dshills/weft/internal/interval"
	"github.com/dshills/weft/internal/template"
)

// Segment turns one text node's literal string, active marks, and inline
// decorators into an ordered list of render fragments.
//
// Marks are normalized (clamped, merged) before use, so callers may pass
// raw mark sets. Only inline decorators targeting sid participate; block
// and layer decorators are handled at the node level by the reconciler.
// Zero-length text still emits an explicit empty leaf so the node stays
// addressable.
//
// Each run carries its own full wrapper stack, in normalized mark order.
// Contiguous minimal wrappers are explicitly not produced: a mark spanning
// several runs appears as one wrapper per run, and the fiber builder's
// structural matching keeps repeat renders of the same mark set write-free.
func Segment(sid, text string, marks []core.Mark, decorators []core.Decorator, reg *template.Registry) []*core.VNode {
	runes := []rune(text)
	textLen := len(runes)

	if textLen == 0 {
		return []*core.VNode{core.TextNode("")}
	}

	marks = interval.NormalizeMarks(marks, textLen)
	inline := inlineDecorators(decorators, sid, text, textLen)

	cuts := boundaries(textLen, marks, inline)

	var out []*core.VNode
	for i := 0; i+1 < len(cuts); i++ {
		run := core.Range{Start: cuts[i], End: cuts[i+1]}
		out = append(out, renderRun(runes, run, marks, inline, reg)...)
	}
	return out
}

// inlineDecorators filters, clamps, and grapheme-snaps the inline
// decorators that target the given node. Inverted and empty ranges
// contribute nothing.
func inlineDecorators(decorators []core.Decorator, sid, text string, textLen int) []core.Decorator {
	var out []core.Decorator
	for _, d := range decorators {
		if d.Category != core.CategoryInline || d.Target.SID != sid {
			continue
		}
		r := core.Range{Start: 0, End: textLen}
		if d.Target.Range != nil {
			r = *d.Target.Range
		}
		if r.Start > r.End {
			continue
		}
		r = r.Clamp(textLen)
		r.Start, r.End = interval.SnapRange(text, r.Start, r.End)
		if r.IsEmpty() {
			continue
		}
		d.Target.Range = &r
		out = append(out, d)
	}
	return out
}

// boundaries computes the sorted distinct cut offsets over [0, textLen].
func boundaries(textLen int, marks []core.Mark, inline []core.Decorator) []int {
	set := map[int]struct{}{0: {}, textLen: {}}
	for _, m := range marks {
		set[m.Range.Start] = struct{}{}
		set[m.Range.End] = struct{}{}
	}
	for _, d := range inline {
		set[d.Target.Range.Start] = struct{}{}
		set[d.Target.Range.End] = struct{}{}
	}

	cuts := make([]int, 0, len(set))
	for cut := range set {
		cuts = append(cuts, cut)
	}
	sort.Ints(cuts)
	return cuts
}

// renderRun builds the fragments for one run: the text leaf, its mark
// wrappers, any wrapping decorator, and sibling insertion fragments.
func renderRun(runes []rune, run core.Range, marks []core.Mark, inline []core.Decorator, reg *template.Registry) []*core.VNode {
	var current *core.VNode = core.TextNode(string(runes[run.Start:run.End]))

	// Innermost-to-outermost: the first declared active mark ends up as the
	// outermost wrapper.
	active := activeMarks(marks, run)
	for i := len(active) - 1; i >= 0; i-- {
		m := active[i]
		tpl := reg.ResolveMark(m.Type)
		wrapped := tpl.Render(&template.Context{
			SType:    m.Type,
			Attrs:    m.Attrs,
			Children: []*core.VNode{current},
		})
		if wrapped == nil {
			continue
		}
		current = wrapped
	}

	var before, after []*core.VNode
	for _, d := range inline {
		if !d.Target.Range.Covers(run) {
			continue
		}

		tpl, _ := reg.ResolveDecorator(d.SType)
		frag := tpl.Render(&template.Context{
			SID:      d.SID,
			SType:    d.SType,
			Children: []*core.VNode{current},
		})
		if frag == nil {
			continue
		}
		tagFragment(frag, d)

		if len(frag.Children) > 0 {
			// The template consumed the run: the decorator wraps the
			// mark-wrapped content.
			current = frag
			continue
		}

		// Insertion fragment: emitted as a sibling at the decorator's own
		// start or end boundary, never duplicated into interior runs.
		switch d.Position {
		case core.PositionBefore:
			if d.Target.Range.Start == run.Start {
				before = append(before, frag)
			}
		case core.PositionAfter:
			if d.Target.Range.End == run.End {
				after = append(after, frag)
			}
		}
	}

	out := make([]*core.VNode, 0, len(before)+1+len(after))
	out = append(out, before...)
	out = append(out, current)
	out = append(out, after...)
	return out
}

// activeMarks returns the marks covering the run, preserving slice order.
func activeMarks(marks []core.Mark, run core.Range) []core.Mark {
	var active []core.Mark
	for _, m := range marks {
		if m.Range.Covers(run) {
			active = append(active, m)
		}
	}
	return active
}

// tagFragment stamps decorator identity onto a rendered fragment so the
// fiber builder can match it across renders. Fragments sharing a decorator
// sid are distinguished positionally and never deduplicated.
func tagFragment(frag *core.VNode, d core.Decorator) {
	frag.DecoratorSID = d.SID
	frag.DecoratorSType = d.SType
	frag.DecoratorCategory = d.Category
	frag.DecoratorPosition = d.Position
}
