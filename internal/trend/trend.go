// Package trend derives trending topics from recent article titles and
// promotes the best matching article.
package trend

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/LJTian/NewsHub/internal/logger"
)

const (
	DefaultWindow = 12 * time.Hour
	DefaultTopN   = 10
	DefaultBoost  = 2.0
	minTokenLen   = 4
)

var (
	wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

	stopWords = map[string]bool{
		"the": true, "a": true, "in": true, "on": true, "at": true, "for": true,
		"with": true, "and": true, "is": true, "are": true, "to": true, "of": true,
		"how": true, "why": true, "what": true, "new": true, "more": true,
		"from": true, "after": true, "over": true, "says": true, "this": true,
		"that": true, "will": true, "have": true, "into": true, "about": true,
	}
)

type Article struct {
	ID           string
	Title        string
	QualityScore float64
	FeedScore    float64
	PublishTime  time.Time
}

type Topic struct {
	Topic        string    `json:"topic"`
	ArticleCount int       `json:"articleCount"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// Store is what the analyzer reads and writes. ReplaceTopics must leave
// exactly the given topics in place.
type Store interface {
	RecentArticles(ctx context.Context, since time.Time) ([]Article, error)
	ReplaceTopics(ctx context.Context, topics []Topic) error
	BumpFeedScore(ctx context.Context, articleID string, delta float64) error
}

type Config struct {
	Window time.Duration
	TopN   int
	Boost  float64
}

type Result struct {
	Topics   []Topic
	Boosted  string
	Articles int
}

type Analyzer struct {
	store Store
	cfg   Config
	now   func() time.Time
	log   logger.Logger
}

func NewAnalyzer(store Store, cfg Config, log logger.Logger) *Analyzer {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.Boost <= 0 {
		cfg.Boost = DefaultBoost
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Analyzer{store: store, cfg: cfg, now: time.Now, log: log.With(logger.String("component", "trend"))}
}

// Run recomputes the trending topic set and boosts the best article for the
// top topic once.
func (a *Analyzer) Run(ctx context.Context) (Result, error) {
	now := a.now()
	articles, err := a.store.RecentArticles(ctx, now.Add(-a.cfg.Window))
	if err != nil {
		return Result{}, fmt.Errorf("load recent articles: %w", err)
	}

	tokensByArticle := make([]map[string]bool, len(articles))
	counts := make(map[string]int)
	for i, art := range articles {
		toks := Tokenize(art.Title)
		set := make(map[string]bool, len(toks))
		for _, t := range toks {
			counts[t]++
			set[t] = true
		}
		tokensByArticle[i] = set
	}

	top := TopTokens(counts, a.cfg.TopN)
	caser := cases.Title(language.English)
	topics := make([]Topic, 0, len(top))
	for _, tok := range top {
		topics = append(topics, Topic{Topic: caser.String(tok), ArticleCount: counts[tok], LastUpdated: now})
	}
	if err := a.store.ReplaceTopics(ctx, topics); err != nil {
		return Result{}, fmt.Errorf("replace topics: %w", err)
	}

	res := Result{Topics: topics, Articles: len(articles)}
	if len(top) > 0 {
		if best := bestMatch(articles, tokensByArticle, top[0]); best >= 0 {
			id := articles[best].ID
			if err := a.store.BumpFeedScore(ctx, id, a.cfg.Boost); err != nil {
				return res, fmt.Errorf("boost article %s: %w", id, err)
			}
			res.Boosted = id
		}
	}

	a.log.Info("trends updated",
		logger.Int("articles", len(articles)),
		logger.Int("topics", len(topics)),
		logger.String("boosted", res.Boosted))
	return res, nil
}

// Tokenize lowercases a title and keeps word tokens of at least four
// characters that are not stop words.
func Tokenize(title string) []string {
	var out []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(title), -1) {
		if len([]rune(w)) < minTokenLen || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// TopTokens orders tokens by count, then alphabetically, and keeps n.
func TopTokens(counts map[string]int, n int) []string {
	toks := make([]string, 0, len(counts))
	for t := range counts {
		toks = append(toks, t)
	}
	sort.Slice(toks, func(i, j int) bool {
		if counts[toks[i]] != counts[toks[j]] {
			return counts[toks[i]] > counts[toks[j]]
		}
		return toks[i] < toks[j]
	})
	if len(toks) > n {
		toks = toks[:n]
	}
	return toks
}

func bestMatch(articles []Article, tokens []map[string]bool, token string) int {
	best := -1
	for i, art := range articles {
		if !tokens[i][token] {
			continue
		}
		if best < 0 || better(art, articles[best]) {
			best = i
		}
	}
	return best
}

func better(a, b Article) bool {
	if a.QualityScore != b.QualityScore {
		return a.QualityScore > b.QualityScore
	}
	if !a.PublishTime.Equal(b.PublishTime) {
		return a.PublishTime.After(b.PublishTime)
	}
	return a.ID < b.ID
}
