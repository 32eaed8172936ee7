package interval

import "testing"

func TestSnapRangeASCIIUnchanged(t *testing.T) {
	start, end := SnapRange("hello world", 3, 8)
	if start != 3 || end != 8 {
		t.Errorf("SnapRange = (%d, %d), want (3, 8)", start, end)
	}
}

func TestSnapRangeCombiningMark(t *testing.T) {
	// "e" followed by a combining acute accent forms one grapheme cluster
	// of two runes starting at rune offset 1.
	text := "xe\u0301z"

	start, end := SnapRange(text, 2, 3)
	if start != 1 {
		t.Errorf("start = %d, want 1 (snapped to cluster start)", start)
	}
	if end != 3 {
		t.Errorf("end = %d, want 3", end)
	}
}

func TestSnapRangeAtBoundariesUnchanged(t *testing.T) {
	text := "xe\u0301z"
	start, end := SnapRange(text, 1, 4)
	if start != 1 || end != 4 {
		t.Errorf("SnapRange = (%d, %d), want (1, 4)", start, end)
	}
}
