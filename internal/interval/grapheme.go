package interval

import "github.com/rivo/uniseg"

// SnapRange snaps rune offsets so they never split a grapheme cluster.
// Offsets falling inside a cluster move back to the cluster start. Pure
// ASCII text is returned unchanged without scanning.
func SnapRange(text string, start, end int) (int, int) {
	if isASCII(text) {
		return start, end
	}
	boundaries := graphemeBoundaries(text)
	return snapDown(boundaries, start), snapDown(boundaries, end)
}

// graphemeBoundaries returns the rune offsets at which grapheme clusters
// begin, plus the final offset one past the last rune.
func graphemeBoundaries(text string) []int {
	var boundaries []int
	offset := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		boundaries = append(boundaries, offset)
		offset += len(g.Runes())
	}
	boundaries = append(boundaries, offset)
	return boundaries
}

// snapDown returns the largest boundary not greater than offset.
func snapDown(boundaries []int, offset int) int {
	if len(boundaries) == 0 {
		return 0
	}
	best := boundaries[0]
	for _, b := range boundaries {
		if b > offset {
			break
		}
		best = b
	}
	return best
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
