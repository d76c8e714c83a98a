package domain

// LineEdit is a single insertion/deletion point reported by an editor.
// LineDelta is new minus old line count of the edited region.
type LineEdit struct {
	StartLine int `json:"startLine"`
	LineDelta int `json:"lineDelta"`
}

// AdjustForEdit shifts a location after an edit at editStartLine:
//   - range entirely before the edit: unchanged
//   - range at or after the edit: both bounds shift by lineDelta
//   - edit strictly inside the range: only the end moves
//
// Lines are clamped to 1 and the end never drops below the start.
// The second return value reports whether anything changed.
func AdjustForEdit(loc Location, editStartLine, lineDelta int) (Location, bool) {
	if lineDelta == 0 {
		return loc, false
	}

	start, end := loc.Bounds()
	switch {
	case end < editStartLine:
		return loc, false
	case start >= editStartLine:
		start += lineDelta
		end += lineDelta
	default:
		end += lineDelta
	}

	start = clampLine(start)
	end = clampLine(end)
	if end < start {
		end = start
	}

	adjusted := loc
	adjusted.StartLine = start
	adjusted.EndLine = end
	return adjusted, adjusted != loc
}

// ApplyEdits folds a sequence of edits over loc in the order given.
func ApplyEdits(loc Location, edits []LineEdit) (Location, bool) {
	changed := false
	for _, e := range edits {
		var c bool
		loc, c = AdjustForEdit(loc, e.StartLine, e.LineDelta)
		changed = changed || c
	}
	return loc, changed
}

func clampLine(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
