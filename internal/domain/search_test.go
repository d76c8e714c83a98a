package domain

import "testing"

func TestScoreText(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"exact", "Parser", "parser", ScoreExactMatch},
		{"prefix", "pars", "parser", ScorePrefixMatch},
		{"substring at start of suffix", "ser", "parser", ScoreSubstringMatch + ScorePositionBonus*0.5},
		{"all words", "cache load", "load the cache", ScoreFuzzyMatch},
		{"fuzzy word", "parsr", "parser", ScoreFuzzyMatch},
		{"no match", "xyz", "parser", 0},
		{"letters scattered in prose", "abc", "a big cat", 0},
		{"empty query", " ", "parser", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreText(tt.query, tt.text); got != tt.want {
				t.Errorf("ScoreText(%q, %q) = %v, want %v", tt.query, tt.text, got, tt.want)
			}
		})
	}
}

func TestScoreBookmarkFieldWeights(t *testing.T) {
	title := Bookmark{Title: "config", Location: "a.go:1"}
	tag := Bookmark{Title: "x", Tags: []string{"config"}, Location: "b.go:1"}
	file := Bookmark{Title: "x", Location: "internal/config.go:3"}
	desc := Bookmark{Title: "x", Description: "config", Location: "c.go:1"}
	none := Bookmark{Title: "x", Location: "d.go:1"}

	scores := []float64{
		ScoreBookmark("config", title),
		ScoreBookmark("config", tag),
		ScoreBookmark("config", file),
		ScoreBookmark("config", desc),
	}
	for i := 1; i < len(scores); i++ {
		if scores[i-1] <= scores[i] {
			t.Errorf("scores = %v, want strictly decreasing title > tag > file > description", scores)
		}
	}
	if got := ScoreBookmark("config", none); got != 0 {
		t.Errorf("ScoreBookmark(none) = %v, want 0", got)
	}
}

func TestScoreBookmarkBadLocation(t *testing.T) {
	b := Bookmark{Title: "main", Location: "main.go"}
	if got := ScoreBookmark("main", b); got != ScoreExactMatch {
		t.Errorf("ScoreBookmark() = %v, want title score despite malformed location", got)
	}
}
