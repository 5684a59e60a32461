// Package categorizer assigns an article to one category from its source
// hint, URL path and keyword density.
package categorizer

import (
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

const longKeywordLen = 5

type keyword struct {
	text     string
	category string
	weight   float64
	pattern  *regexp.Regexp
}

type Categorizer struct {
	rules    Rules
	valid    map[string]bool
	keywords []keyword
	// byDict maps a matcher dictionary index to the keywords sharing that text.
	byDict [][]int

	// ahocorasick.Matcher keeps per-call state, so matches are serialized.
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
}

func New(rules Rules) *Categorizer {
	c := &Categorizer{rules: rules, valid: make(map[string]bool, len(Categories))}
	for _, cat := range Categories {
		c.valid[cat] = true
	}

	var dict []string
	dictIndex := make(map[string]int)
	for _, cat := range Categories {
		for _, kw := range rules.Keywords[cat] {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			w := 1.0
			if len(kw) > longKeywordLen {
				w = 1.5
			}
			di, ok := dictIndex[kw]
			if !ok {
				di = len(dict)
				dictIndex[kw] = di
				dict = append(dict, kw)
				c.byDict = append(c.byDict, nil)
			}
			c.byDict[di] = append(c.byDict[di], len(c.keywords))
			c.keywords = append(c.keywords, keyword{
				text:     kw,
				category: cat,
				weight:   w,
				pattern:  regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`),
			})
		}
	}
	if len(dict) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(dict)
	}
	return c
}

// Categorize returns the winning category for an article.
func (c *Categorizer) Categorize(title, body, rawURL, hint string) string {
	scores := c.Scores(title, body, rawURL, hint)

	best, bestScore := General, -1.0
	for _, cat := range Categories {
		if s := scores[cat]; s > bestScore {
			best, bestScore = cat, s
		}
	}
	if bestScore < c.rules.MinScore {
		return General
	}
	return best
}

// Scores returns the per-category vote before the confidence floor.
func (c *Categorizer) Scores(title, body, rawURL, hint string) map[string]float64 {
	scores := make(map[string]float64, len(Categories))
	for _, cat := range Categories {
		scores[cat] = 0
	}

	text := strings.ToLower(title + " " + title + " " + body)
	for _, di := range c.presentKeywords(text) {
		if di < 0 || di >= len(c.byDict) {
			continue
		}
		for _, idx := range c.byDict[di] {
			kw := c.keywords[idx]
			if n := len(kw.pattern.FindAllStringIndex(text, -1)); n > 0 {
				scores[kw.category] += float64(n) * kw.weight
			}
		}
	}

	if cat := c.pathCategory(rawURL); cat != "" {
		scores[cat] += c.rules.URLBonus
	}
	if hint = strings.TrimSpace(hint); c.valid[hint] {
		scores[hint] += c.rules.HintBonus
	}
	return scores
}

// presentKeywords returns the dictionary indexes of keywords occurring
// anywhere in text as substrings.
func (c *Categorizer) presentKeywords(text string) []int {
	if c.matcher == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matcher.Match([]byte(text))
}

func (c *Categorizer) pathCategory(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		p = u.Path
	}
	p = strings.ToLower(p)
	for _, r := range c.rules.Paths {
		if strings.Contains(p, r.Substring) {
			return r.Category
		}
	}
	return ""
}
