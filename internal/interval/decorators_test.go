package interval

import (
	"testing"

	"github.com/dshills/weft/internal/core"
)

func deco(sid string, start, end int) core.Decorator {
	return core.Decorator{
		SID:      sid,
		SType:    "highlight",
		Category: core.CategoryInline,
		Target:   core.Target{SID: "node-1", Range: rng(start, end)},
	}
}

func TestAdjustDecoratorsInsertion(t *testing.T) {
	tests := []struct {
		name string
		in   core.Range
		edit core.TextEdit
		want core.Range
	}{
		{
			name: "entirely after shifts by delta",
			in:   core.Range{Start: 5, End: 9},
			edit: core.TextEdit{Position: 2, InsertedLen: 3, InsertedText: "abc"},
			want: core.Range{Start: 8, End: 12},
		},
		{
			name: "entirely before untouched",
			in:   core.Range{Start: 0, End: 2},
			edit: core.TextEdit{Position: 2, InsertedLen: 3, InsertedText: "abc"},
			want: core.Range{Start: 0, End: 2},
		},
		{
			name: "straddling shifts only the end",
			in:   core.Range{Start: 1, End: 6},
			edit: core.TextEdit{Position: 2, InsertedLen: 3, InsertedText: "abc"},
			want: core.Range{Start: 1, End: 9},
		},
		{
			name: "start exactly at edit point is pushed forward",
			in:   core.Range{Start: 2, End: 4},
			edit: core.TextEdit{Position: 2, InsertedLen: 3, InsertedText: "abc"},
			want: core.Range{Start: 5, End: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustDecorators([]core.Decorator{deco("d1", tt.in.Start, tt.in.End)}, "node-1", tt.edit)
			if len(got) != 1 {
				t.Fatalf("got %d decorators, want 1", len(got))
			}
			if *got[0].Target.Range != tt.want {
				t.Errorf("range = %v, want %v", *got[0].Target.Range, tt.want)
			}
		})
	}
}

func TestAdjustDecoratorsDeletion(t *testing.T) {
	tests := []struct {
		name     string
		in       core.Range
		edit     core.TextEdit
		want     core.Range
		survives bool
	}{
		{
			name:     "fully erased decorator is removed",
			in:       core.Range{Start: 5, End: 9},
			edit:     core.TextEdit{Position: 4, DeletedLen: 6},
			survives: false,
		},
		{
			name:     "exactly covering deletion removes it",
			in:       core.Range{Start: 5, End: 9},
			edit:     core.TextEdit{Position: 5, DeletedLen: 4},
			survives: false,
		},
		{
			name:     "after deletion shifts back",
			in:       core.Range{Start: 8, End: 10},
			edit:     core.TextEdit{Position: 1, DeletedLen: 3},
			want:     core.Range{Start: 5, End: 7},
			survives: true,
		},
		{
			name:     "deletion eats the tail",
			in:       core.Range{Start: 2, End: 8},
			edit:     core.TextEdit{Position: 5, DeletedLen: 5},
			want:     core.Range{Start: 2, End: 5},
			survives: true,
		},
		{
			name:     "deletion eats the head",
			in:       core.Range{Start: 6, End: 12},
			edit:     core.TextEdit{Position: 5, DeletedLen: 5},
			want:     core.Range{Start: 5, End: 7},
			survives: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustDecorators([]core.Decorator{deco("d1", tt.in.Start, tt.in.End)}, "node-1", tt.edit)
			if !tt.survives {
				if len(got) != 0 {
					t.Fatalf("decorator should have been removed, got %v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("got %d decorators, want 1", len(got))
			}
			if *got[0].Target.Range != tt.want {
				t.Errorf("range = %v, want %v", *got[0].Target.Range, tt.want)
			}
		})
	}
}

func TestAdjustDecoratorsOtherNodesPassThrough(t *testing.T) {
	other := core.Decorator{
		SID:    "d2",
		SType:  "comment",
		Target: core.Target{SID: "node-2", Range: rng(5, 9)},
	}
	block := core.Decorator{
		SID:      "d3",
		SType:    "toolbar",
		Category: core.CategoryBlock,
		Target:   core.Target{SID: "node-1"},
	}

	edit := core.TextEdit{Position: 0, DeletedLen: 100}
	got := AdjustDecorators([]core.Decorator{other, block}, "node-1", edit)
	if len(got) != 2 {
		t.Fatalf("got %d decorators, want 2", len(got))
	}
	if *got[0].Target.Range != (core.Range{Start: 5, End: 9}) {
		t.Errorf("other node decorator changed: %v", *got[0].Target.Range)
	}
	if got[1].Target.Range != nil {
		t.Error("whole-node decorator gained a range")
	}
}

func TestAdjustDecoratorsNeverReturnsNil(t *testing.T) {
	got := AdjustDecorators(nil, "node-1", core.TextEdit{})
	if got == nil {
		t.Fatal("AdjustDecorators returned nil")
	}
}
