// Package interval maintains mark and decorator ranges on text nodes.
//
// Mark normalization and decorator translation run on every keystroke, so
// nothing in this package returns an error: malformed ranges are corrected
// or dropped, never rejected.
package interval

import (
	"sort"

	"github.com/dshills/weft/internal/core"
)

// NormalizeMarks normalizes the marks of a text node of the given length.
//
// Missing ranges default to the whole text, endpoints are clamped into
// [0, textLength], empty and inverted ranges are dropped, exact duplicates
// are removed, and marks sharing the same type and attributes whose ranges
// touch or overlap are merged into one contiguous span. The result is
// sorted by start offset; ties keep the original declaration order.
//
// The result is never nil, so callers can persist an explicit empty slice
// when every mark dies.
func NormalizeMarks(marks []core.Mark, textLength int) []core.Mark {
	if textLength < 0 {
		textLength = 0
	}

	// Clamp and drop degenerate ranges.
	clamped := make([]core.Mark, 0, len(marks))
	for _, m := range marks {
		r := core.Range{Start: 0, End: textLength}
		if m.Range != nil {
			r = m.Range.Clamp(textLength)
		}
		if r.IsEmpty() {
			continue
		}
		m.Range = &core.Range{Start: r.Start, End: r.End}
		clamped = append(clamped, m)
	}

	// Deduplicate by (type, attrs, range).
	seen := make(map[markKey]struct{}, len(clamped))
	deduped := clamped[:0]
	for _, m := range clamped {
		key := markKey{fingerprint: m.Fingerprint(), rng: *m.Range}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, m)
	}

	// Group by (type, attrs), preserving first-occurrence order of groups.
	var order []string
	groups := make(map[string][]core.Mark)
	for _, m := range deduped {
		fp := m.Fingerprint()
		if _, ok := groups[fp]; !ok {
			order = append(order, fp)
		}
		groups[fp] = append(groups[fp], m)
	}

	merged := make([]core.Mark, 0, len(deduped))
	for _, fp := range order {
		merged = append(merged, mergeGroup(groups[fp])...)
	}

	// Sort by start; stable so equal starts keep group order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Range.Start < merged[j].Range.Start
	})

	return merged
}

type markKey struct {
	fingerprint string
	rng         core.Range
}

// mergeGroup merges touching or overlapping ranges of marks that share one
// (type, attrs) identity. The input marks all carry non-nil ranges.
func mergeGroup(group []core.Mark) []core.Mark {
	if len(group) == 1 {
		return group
	}

	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Range.Start < group[j].Range.Start
	})

	out := make([]core.Mark, 0, len(group))
	current := group[0]
	for _, next := range group[1:] {
		if current.Range.End >= next.Range.Start {
			if next.Range.End > current.Range.End {
				current.Range = &core.Range{Start: current.Range.Start, End: next.Range.End}
			}
			continue
		}
		out = append(out, current)
		current = next
	}
	out = append(out, current)

	return out
}
