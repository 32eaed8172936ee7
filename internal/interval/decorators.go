package interval

import "github.com/dshills/weft/internal/core"

// AdjustDecorators translates decorator ranges across a single text edit on
// the node identified by sid. Decorators targeting other nodes, and
// decorators without a sub-range, pass through unchanged.
//
// Translation rules:
//   - a decorator fully inside the deleted span is removed
//   - a decorator entirely after the edit shifts by the edit's delta
//   - a decorator straddling the edit point has only its end shifted
//   - a decorator entirely before the edit is untouched
//
// The result is never nil and never contains an empty or inverted range.
func AdjustDecorators(decorators []core.Decorator, sid string, edit core.TextEdit) []core.Decorator {
	out := make([]core.Decorator, 0, len(decorators))
	for _, d := range decorators {
		if d.Target.SID != sid || d.Target.Range == nil {
			out = append(out, d)
			continue
		}

		r, ok := TranslateRange(*d.Target.Range, edit)
		if !ok {
			continue
		}
		d.Target.Range = &r
		out = append(out, d)
	}
	return out
}

// TranslateRange maps a range through an edit. The boolean result is false
// when the range did not survive.
func TranslateRange(r core.Range, edit core.TextEdit) (core.Range, bool) {
	editStart := edit.Position
	editEnd := edit.Position + edit.DeletedLen
	if editStart < 0 {
		editStart = 0
	}
	if editEnd < editStart {
		editEnd = editStart
	}
	delta := edit.Delta()

	// Fully erased: the whole range sat inside the deleted span.
	if edit.DeletedLen > 0 && r.Start >= editStart && r.End <= editEnd {
		return core.Range{}, false
	}

	mapped := core.Range{
		Start: mapStart(r.Start, editStart, editEnd, delta),
		End:   mapEnd(r.End, editStart, editEnd, delta),
	}
	if mapped.IsEmpty() {
		return core.Range{}, false
	}
	return mapped, true
}

// mapStart translates a range start. Starts sitting exactly at the edit
// position are pushed past inserted text (forward bias).
func mapStart(offset, editStart, editEnd, delta int) int {
	switch {
	case offset < editStart:
		return offset
	case offset >= editEnd:
		return offset + delta
	default:
		// Inside the deleted span: collapse onto the edit point.
		return editStart
	}
}

// mapEnd translates a range end. Ends sitting exactly at the edit position
// stay put (backward bias), so a decorator entirely before the edit is
// untouched.
func mapEnd(offset, editStart, editEnd, delta int) int {
	switch {
	case offset <= editStart:
		return offset
	case offset >= editEnd:
		return offset + delta
	default:
		return editStart
	}
}
