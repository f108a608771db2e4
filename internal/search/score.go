package search

import "strings"

// Score points awarded by Score.
const (
	ScoreExact       = 100
	ScoreTitle       = 80
	ScoreTitlePrefix = 60
	ScorePerWord     = 10
)

// Haystack is the lowercased text of r that queries are matched against.
func Haystack(r Record) string {
	return strings.ToLower(r.Title + " " + r.Excerpt + " " + r.Category + " " + strings.Join(r.Keywords, " "))
}

// Score rates r against query. The whole lowercased query found anywhere in the
// haystack scores 100; found in the title 80; a title prefix or excerpt match 60;
// otherwise each query word found in the haystack scores 10.
func Score(r Record, query string) int {
	return scoreLower(r, strings.ToLower(query), Haystack(r))
}

func scoreLower(r Record, q, haystack string) int {
	if strings.Contains(haystack, q) {
		return ScoreExact
	}
	title := strings.ToLower(r.Title)
	if strings.Contains(title, q) {
		return ScoreTitle
	}
	if strings.HasPrefix(title, q) || strings.Contains(strings.ToLower(r.Excerpt), q) {
		return ScoreTitlePrefix
	}
	score := 0
	for _, w := range strings.Fields(q) {
		if strings.Contains(haystack, w) {
			score += ScorePerWord
		}
	}
	return score
}
