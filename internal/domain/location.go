package domain

import (
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/linonon/aibookmarks/internal/errors"
)

// Location is a decoded bookmark target.
// Examples:
//   - "src/a.ts:10"        -> {src/a.ts, 10, 10, false}
//   - "src/a.ts:10-25"     -> {src/a.ts, 10, 25, true}
//   - "C:\\repo\\a.go:3-4" -> {C:\repo\a.go, 3, 4, true}
type Location struct {
	FilePath  string
	StartLine int
	EndLine   int
	IsRange   bool // display only; both forms carry Start/End
}

// ParseLocation decodes "path:line" or "path:start-end".
// The split happens on the last colon since paths may contain colons.
// Inverted ranges are accepted as-is.
func ParseLocation(s string) (Location, error) {
	idx := strings.LastIndex(s, ":")
	if idx == -1 {
		return Location{}, apperrors.MalformedLocation("location %q has no line number", s)
	}

	path, lines := s[:idx], s[idx+1:]
	if path == "" {
		return Location{}, apperrors.MalformedLocation("location %q has no file path", s)
	}

	if startStr, endStr, ok := strings.Cut(lines, "-"); ok {
		start, ok := parseLine(startStr)
		if !ok {
			return Location{}, apperrors.MalformedLocation("location %q has invalid start line", s)
		}
		end, ok := parseLine(endStr)
		if !ok {
			return Location{}, apperrors.MalformedLocation("location %q has invalid end line", s)
		}
		return Location{FilePath: path, StartLine: start, EndLine: end, IsRange: true}, nil
	}

	line, ok := parseLine(lines)
	if !ok {
		return Location{}, apperrors.MalformedLocation("location %q has invalid line number", s)
	}
	return Location{FilePath: path, StartLine: line, EndLine: line}, nil
}

// parseLine accepts plain decimal digits without sign or leading zeros, so
// String reproduces the input.
func parseLine(s string) (int, bool) {
	if s == "" || strings.Trim(s, "0123456789") != "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// String encodes the location; it is the exact inverse of ParseLocation.
func (l Location) String() string {
	if l.IsRange {
		return l.FilePath + ":" + strconv.Itoa(l.StartLine) + "-" + strconv.Itoa(l.EndLine)
	}
	return l.FilePath + ":" + strconv.Itoa(l.StartLine)
}

// Bounds returns the line range ordered low to high.
func (l Location) Bounds() (lo, hi int) {
	if l.StartLine <= l.EndLine {
		return l.StartLine, l.EndLine
	}
	return l.EndLine, l.StartLine
}

// NormalizeLocation parses raw, rewrites its path relative to the workspace
// root when the path falls under it, and re-encodes it.
func NormalizeLocation(workspaceRoot, raw string) (string, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return "", err
	}
	loc.FilePath = NormalizePath(workspaceRoot, loc.FilePath)
	return loc.String(), nil
}

// NormalizePath converts separators to '/', strips trailing separators and
// makes absolute paths under workspaceRoot relative. Absolute paths outside
// the root are kept as they are.
func NormalizePath(workspaceRoot, p string) string {
	p = slashed(p)
	if p == "" {
		return p
	}

	root := slashed(workspaceRoot)
	if root == "" || !isAbsSlashed(p) {
		return strings.TrimPrefix(p, "./")
	}

	if p == root {
		return "."
	}
	if prefix := strings.TrimSuffix(root, "/") + "/"; strings.HasPrefix(p, prefix) {
		return strings.TrimPrefix(p, prefix)
	}
	return p
}

// PathsMatch compares a stored path against a query path by substring
// containment in either direction, so partial and absolute/relative
// mismatches still match.
func PathsMatch(stored, query string) bool {
	a, b := slashed(stored), slashed(query)
	if a == "" || b == "" {
		return false
	}
	// "." is the workspace root itself and covers every path inside it.
	if b == "." {
		return insideRoot(a)
	}
	if a == "." {
		return insideRoot(b)
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func insideRoot(p string) bool {
	return !isAbsSlashed(p) && p != ".." && !strings.HasPrefix(p, "../")
}

func slashed(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, `\`, "/")
	cleaned := filepath.ToSlash(filepath.Clean(filepath.FromSlash(p)))
	if cleaned == "/" {
		return cleaned
	}
	return strings.TrimSuffix(cleaned, "/")
}

// isAbsSlashed accepts unix absolute paths and windows drive paths.
func isAbsSlashed(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && p[2] == '/'
}

// ExtractLines returns lines start..end (1-indexed, inclusive) of content.
// It reports false when the range falls outside the content.
func ExtractLines(content string, start, end int) (string, bool) {
	if start > end {
		start, end = end, start
	}
	lines := strings.Split(content, "\n")
	if start < 1 || end > len(lines) {
		return "", false
	}
	out := lines[start-1 : end]
	for i, line := range out {
		out[i] = strings.TrimSuffix(line, "\r")
	}
	return strings.Join(out, "\n"), true
}

// SameFile reports whether two stored paths name the same file: equal after
// normalization, or one is a suffix of the other on a '/' boundary.
// It is stricter than PathsMatch so editing "a.ts" leaves "ba.ts" alone.
func SameFile(a, b string) bool {
	a, b = strings.TrimPrefix(slashed(a), "./"), strings.TrimPrefix(slashed(b), "./")
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return strings.HasSuffix(a, "/"+b) || strings.HasSuffix(b, "/"+a)
}
