package quality

import (
	"math"
	"strings"
	"unicode"
)

const (
	BaseScore        = 50.0
	DefaultThreshold = 30.0
	wordsPerMinute   = 200
)

// DefaultClickbaitPhrases are matched case-insensitively against titles.
var DefaultClickbaitPhrases = []string{"shocking", "won't believe", "you need to see", "omg", "just in"}

type Result struct {
	Score           float64
	Readability     float64
	WordCount       int
	Clickbait       bool
	ReadTimeMinutes int
}

type Engine struct {
	threshold float64
	clickbait []string
}

// NewEngine returns an engine gating at threshold; <= 0 uses DefaultThreshold.
func NewEngine(threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{threshold: threshold, clickbait: DefaultClickbaitPhrases}
}

func (e *Engine) Clean(text string) string { return Clean(text) }

func (e *Engine) CleanTitle(title string) string { return CleanTitle(title) }

// Passes reports whether score clears the configured minimum.
func (e *Engine) Passes(score float64) bool { return score >= e.threshold }

// Score rates a cleaned article body and its title.
func (e *Engine) Score(title, body string) Result {
	words := len(Words(body))
	r := Result{
		WordCount:   words,
		Readability: FleschReadingEase(body),
		Clickbait:   isClickbait(title, e.clickbait),
	}
	r.Score = ScoreMetrics(words, r.Readability, title, e.clickbait)
	if words > 0 {
		r.ReadTimeMinutes = int(math.Ceil(float64(words) / wordsPerMinute))
	}
	return r
}

// ScoreMetrics applies the scoring rules to precomputed metrics.
func ScoreMetrics(words int, readability float64, title string, clickbait []string) float64 {
	score := BaseScore

	switch {
	case words < 100:
		score -= 30
	case words > 1000:
		score += 20
	case words > 500:
		score += 10
	}

	switch {
	case readability >= 50 && readability <= 70:
		score += 10
	case readability < 30:
		score -= 10
	}

	if isClickbait(title, clickbait) {
		score -= 25
	}
	if isShouting(title) {
		score -= 20
	}
	return math.Max(0, math.Min(100, score))
}

func isClickbait(title string, phrases []string) bool {
	t := strings.ToLower(title)
	for _, p := range phrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

// isShouting is true when the title has cased letters and none are lowercase.
func isShouting(title string) bool {
	cased := false
	for _, r := range title {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
