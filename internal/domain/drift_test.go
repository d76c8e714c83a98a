package domain

import "testing"

func TestAdjustForEdit(t *testing.T) {
	base := Location{FilePath: "f.go", StartLine: 10, EndLine: 20, IsRange: true}

	tests := []struct {
		name        string
		loc         Location
		editLine    int
		delta       int
		wantStart   int
		wantEnd     int
		wantChanged bool
	}{
		{name: "edit before shifts both", loc: base, editLine: 5, delta: 3, wantStart: 13, wantEnd: 23, wantChanged: true},
		{name: "edit at start shifts both", loc: base, editLine: 10, delta: 2, wantStart: 12, wantEnd: 22, wantChanged: true},
		{name: "edit inside absorbs", loc: base, editLine: 15, delta: 3, wantStart: 10, wantEnd: 23, wantChanged: true},
		{name: "edit on last line absorbs", loc: base, editLine: 20, delta: -4, wantStart: 10, wantEnd: 16, wantChanged: true},
		{name: "edit after leaves alone", loc: base, editLine: 25, delta: 50, wantStart: 10, wantEnd: 20},
		{name: "zero delta", loc: base, editLine: 1, delta: 0, wantStart: 10, wantEnd: 20},
		{name: "clamped to one", loc: base, editLine: 1, delta: -30, wantStart: 1, wantEnd: 1, wantChanged: true},
		{name: "inside deletion never inverts", loc: base, editLine: 15, delta: -40, wantStart: 10, wantEnd: 10, wantChanged: true},
		{
			name:        "single line at edit point shifts",
			loc:         Location{FilePath: "f.go", StartLine: 8, EndLine: 8},
			editLine:    8,
			delta:       1,
			wantStart:   9,
			wantEnd:     9,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := AdjustForEdit(tt.loc, tt.editLine, tt.delta)
			if got.StartLine != tt.wantStart || got.EndLine != tt.wantEnd {
				t.Errorf("AdjustForEdit() = %d-%d, want %d-%d", got.StartLine, got.EndLine, tt.wantStart, tt.wantEnd)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if got.IsRange != tt.loc.IsRange {
				t.Errorf("IsRange flipped to %v", got.IsRange)
			}
		})
	}
}

func TestApplyEditsInOrder(t *testing.T) {
	loc := Location{FilePath: "f.go", StartLine: 10, EndLine: 20, IsRange: true}

	// +5 at line 1 moves the range to 15-25, then the edit at 22 lands inside it.
	got, changed := ApplyEdits(loc, []LineEdit{
		{StartLine: 1, LineDelta: 5},
		{StartLine: 22, LineDelta: 2},
	})
	if !changed {
		t.Fatal("ApplyEdits() should report a change")
	}
	if got.StartLine != 15 || got.EndLine != 27 {
		t.Errorf("ApplyEdits() = %d-%d, want 15-27", got.StartLine, got.EndLine)
	}
}
