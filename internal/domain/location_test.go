package domain

import (
	"testing"

	apperrors "github.com/linonon/aibookmarks/internal/errors"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantPath  string
		wantStart int
		wantEnd   int
		wantRange bool
	}{
		{
			name:      "single line",
			input:     "src/a.ts:10",
			wantPath:  "src/a.ts",
			wantStart: 10,
			wantEnd:   10,
		},
		{
			name:      "range",
			input:     "src/a.ts:10-25",
			wantPath:  "src/a.ts",
			wantStart: 10,
			wantEnd:   25,
			wantRange: true,
		},
		{
			name:      "windows drive path",
			input:     `C:\repo\main.go:3-4`,
			wantPath:  `C:\repo\main.go`,
			wantStart: 3,
			wantEnd:   4,
			wantRange: true,
		},
		{
			name:      "colon inside path",
			input:     "weird:dir/file.go:7",
			wantPath:  "weird:dir/file.go",
			wantStart: 7,
			wantEnd:   7,
		},
		{
			name:      "inverted range kept",
			input:     "a.go:20-10",
			wantPath:  "a.go",
			wantStart: 20,
			wantEnd:   10,
			wantRange: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseLocation(tt.input)
			if err != nil {
				t.Fatalf("ParseLocation(%q) error = %v", tt.input, err)
			}
			if loc.FilePath != tt.wantPath {
				t.Errorf("FilePath = %q, want %q", loc.FilePath, tt.wantPath)
			}
			if loc.StartLine != tt.wantStart || loc.EndLine != tt.wantEnd {
				t.Errorf("lines = %d-%d, want %d-%d", loc.StartLine, loc.EndLine, tt.wantStart, tt.wantEnd)
			}
			if loc.IsRange != tt.wantRange {
				t.Errorf("IsRange = %v, want %v", loc.IsRange, tt.wantRange)
			}
		})
	}
}

func TestParseLocationMalformed(t *testing.T) {
	inputs := []string{
		"no-colon-here",
		"a.ts:",
		"a.ts:abc",
		"a.ts:1-",
		"a.ts:-3",
		"a.ts:1-2-3",
		":12",
		"a.ts:+5",
		"a.ts:007",
		"a.ts:1-+2",
		"a.ts:01-3",
		"a.ts: 4",
		"a.ts:99999999999999999999",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseLocation(in)
			if err == nil {
				t.Fatalf("ParseLocation(%q) should fail", in)
			}
			if !apperrors.Is(err, apperrors.ErrMalformedLocation) {
				t.Errorf("error = %v, want malformed location", err)
			}
		})
	}
}

func TestLocationRoundTrip(t *testing.T) {
	inputs := []string{
		"a.ts:1",
		"a.ts:20-25",
		"dir/sub/file.go:100",
		"C:/Users/me/repo/x.go:5-9",
		"odd:name:with:colons.txt:42",
		"/abs/path/main.go:3-3",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			loc, err := ParseLocation(in)
			if err != nil {
				t.Fatalf("ParseLocation(%q) error = %v", in, err)
			}
			if got := loc.String(); got != in {
				t.Errorf("String() = %q, want %q", got, in)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want string
	}{
		{name: "absolute under root", root: "/ws/project", path: "/ws/project/src/a.ts", want: "src/a.ts"},
		{name: "root with trailing slash", root: "/ws/project/", path: "/ws/project/src/a.ts", want: "src/a.ts"},
		{name: "absolute outside root", root: "/ws/project", path: "/other/b.ts", want: "/other/b.ts"},
		{name: "sibling prefix is not under root", root: "/ws/project", path: "/ws/project2/a.ts", want: "/ws/project2/a.ts"},
		{name: "relative kept", root: "/ws/project", path: "./src/a.ts", want: "src/a.ts"},
		{name: "backslashes", root: `C:\ws`, path: `C:\ws\src\a.ts`, want: "src/a.ts"},
		{name: "trailing separator stripped", root: "/ws", path: "lib/", want: "lib"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.root, tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q, %q) = %q, want %q", tt.root, tt.path, got, tt.want)
			}
		})
	}
}

func TestNormalizeLocation(t *testing.T) {
	got, err := NormalizeLocation("/ws", "/ws/src/a.ts:10-12")
	if err != nil {
		t.Fatalf("NormalizeLocation() error = %v", err)
	}
	if got != "src/a.ts:10-12" {
		t.Errorf("NormalizeLocation() = %q, want %q", got, "src/a.ts:10-12")
	}

	if _, err := NormalizeLocation("/ws", "broken"); err == nil {
		t.Error("NormalizeLocation() with malformed input should fail")
	}
}

func TestPathsMatch(t *testing.T) {
	tests := []struct {
		stored string
		query  string
		want   bool
	}{
		{"src/a.ts", "src/a.ts", true},
		{"src/a.ts", "/ws/project/src/a.ts", true},
		{"src/a.ts", "a.ts", true},
		{"src/a.ts", `src\a.ts`, true},
		{"src/a.ts", "b.ts", false},
		{"src/a.ts", "", false},
		{"src/a.ts", ".", true},
		{"main.go", "./", true},
		{"../other/a.ts", ".", false},
		{"/elsewhere/a.ts", ".", false},
		{".", "src/a.ts", true},
	}

	for _, tt := range tests {
		t.Run(tt.stored+"|"+tt.query, func(t *testing.T) {
			if got := PathsMatch(tt.stored, tt.query); got != tt.want {
				t.Errorf("PathsMatch(%q, %q) = %v, want %v", tt.stored, tt.query, got, tt.want)
			}
		})
	}
}

func TestExtractLines(t *testing.T) {
	content := "one\r\ntwo\nthree\nfour"

	got, ok := ExtractLines(content, 2, 3)
	if !ok || got != "two\nthree" {
		t.Errorf("ExtractLines(2,3) = %q, %v", got, ok)
	}

	got, ok = ExtractLines(content, 1, 1)
	if !ok || got != "one" {
		t.Errorf("ExtractLines(1,1) = %q, %v", got, ok)
	}

	if _, ok := ExtractLines(content, 3, 9); ok {
		t.Error("ExtractLines past end should report false")
	}
	if _, ok := ExtractLines(content, 0, 1); ok {
		t.Error("ExtractLines from line 0 should report false")
	}
}

func TestSameFile(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"src/a.ts", "src/a.ts", true},
		{"src/a.ts", "./src/a.ts", true},
		{"src/a.ts", "a.ts", true},
		{"/ws/src/a.ts", "src/a.ts", true},
		{"src/ba.ts", "a.ts", false},
		{"src/a.ts", "src/a.tsx", false},
		{"src/a.ts", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			if got := SameFile(tt.a, tt.b); got != tt.want {
				t.Errorf("SameFile(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
