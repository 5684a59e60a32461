// Package processor runs the ingestion pipeline for one source: discover
// links, extract, clean and score, dedup, categorize and persist.
package processor

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LJTian/NewsHub/internal/dedup"
	"github.com/LJTian/NewsHub/internal/extractor"
	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/quality"
	"github.com/LJTian/NewsHub/internal/source"
)

const (
	DefaultWorkers = 8
	summaryRunes   = 250
)

// Article is the persisted record produced by a successful pipeline run.
type Article struct {
	ID               string
	Title            string
	Body             string
	Summary          string
	SourceName       string
	SourceURL        string
	ImageURL         string
	Author           string
	PublishTime      time.Time
	Category         string
	Region           string
	Embedding        []float32
	QualityScore     float64
	ReadabilityScore float64
	ReadTimeMinutes  int
	IsClickbait      bool
	FeedScore        float64
	CreatedAt        time.Time
}

// Store is the write side the pipeline needs. InsertArticle must be an
// atomic insert-if-absent keyed by SourceURL and report whether a row was
// created.
type Store interface {
	ExistsURL(ctx context.Context, url string) (bool, error)
	InsertArticle(ctx context.Context, a *Article) (bool, error)
}

type Discoverer interface {
	Discover(ctx context.Context, src source.Descriptor, entry source.Entrypoint) []string
}

type Extractor interface {
	Extract(ctx context.Context, url string) (*extractor.Article, bool)
}

type Scorer interface {
	Clean(text string) string
	CleanTitle(title string) string
	Score(title, body string) quality.Result
	Passes(score float64) bool
}

type DuplicateChecker interface {
	Check(ctx context.Context, title, body string) dedup.Verdict
}

type Classifier interface {
	Categorize(title, body, rawURL, hint string) string
}

// Recorder receives per-candidate outcomes; metrics.Metrics implements it.
type Recorder interface {
	Outcome(source string, outcome Outcome)
	SourceRun(source string, added int, elapsed time.Duration)
}

type Outcome string

const (
	OutcomeAdded         Outcome = "added"
	OutcomeExists        Outcome = "exists"
	OutcomeExtractFailed Outcome = "extract_failed"
	OutcomeLowQuality    Outcome = "low_quality"
	OutcomeDuplicate     Outcome = "duplicate"
	OutcomeError         Outcome = "error"
)

type RunStats struct {
	Source     string
	Candidates int
	Added      int
	Discarded  map[Outcome]int
	Elapsed    time.Duration
}

type Deps struct {
	Store      Store
	Discoverer Discoverer
	Extractor  Extractor
	Quality    Scorer
	Dedup      DuplicateChecker
	Classifier Classifier
	Recorder   Recorder
	Logger     logger.Logger
	Workers    int
	Now        func() time.Time
}

type Pipeline struct {
	d   Deps
	log logger.Logger
}

func New(d Deps) *Pipeline {
	if d.Workers <= 0 {
		d.Workers = DefaultWorkers
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logger.NewNop()
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	return &Pipeline{d: d, log: d.Logger.With(logger.String("component", "processor"))}
}

type candidate struct {
	url  string
	hint string
}

// RunSource runs discovery over every entrypoint of src and processes the
// candidates on a bounded worker pool. A failing candidate never stops its
// siblings.
func (p *Pipeline) RunSource(ctx context.Context, src source.Descriptor) RunStats {
	start := p.d.Now()
	log := p.log.With(logger.String("source", src.Name))

	var cands []candidate
	seen := make(map[string]bool)
	for _, entry := range src.Entrypoints {
		if ctx.Err() != nil {
			break
		}
		for _, u := range p.d.Discoverer.Discover(ctx, src, entry) {
			if seen[u] {
				continue
			}
			seen[u] = true
			cands = append(cands, candidate{url: u, hint: entry.CategoryHint})
		}
	}

	stats := RunStats{Source: src.Name, Candidates: len(cands), Discarded: make(map[Outcome]int)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.d.Workers)
	for _, c := range cands {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome := p.processCandidate(gctx, src, c, log)
			p.d.Recorder.Outcome(src.Name, outcome)

			mu.Lock()
			defer mu.Unlock()
			if outcome == OutcomeAdded {
				stats.Added++
			} else {
				stats.Discarded[outcome]++
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.Elapsed = p.d.Now().Sub(start)
	p.d.Recorder.SourceRun(src.Name, stats.Added, stats.Elapsed)
	log.Info("source run finished",
		logger.Int("candidates", stats.Candidates),
		logger.Int("added", stats.Added),
		logger.Any("discarded", stats.Discarded),
		logger.Duration("elapsed", stats.Elapsed))
	return stats
}

// RunAll runs each source in turn and returns the total number of new
// articles.
func (p *Pipeline) RunAll(ctx context.Context, sources []source.Descriptor) int {
	total := 0
	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		total += p.RunSource(ctx, src).Added
	}
	return total
}

func (p *Pipeline) processCandidate(ctx context.Context, src source.Descriptor, c candidate, log logger.Logger) (outcome Outcome) {
	log = log.With(logger.String("url", c.url))
	defer func() {
		if r := recover(); r != nil {
			log.Error("candidate panicked", logger.Any("panic", r))
			outcome = OutcomeError
		}
	}()

	exists, err := p.d.Store.ExistsURL(ctx, c.url)
	if err != nil {
		log.Warn("url lookup failed", logger.Error(err))
		return OutcomeError
	}
	if exists {
		return OutcomeExists
	}

	raw, ok := p.d.Extractor.Extract(ctx, c.url)
	if !ok {
		return OutcomeExtractFailed
	}

	title := p.d.Quality.CleanTitle(raw.Title)
	if title == "" {
		return OutcomeExtractFailed
	}
	body := p.d.Quality.Clean(raw.Body)
	q := p.d.Quality.Score(title, body)
	if !p.d.Quality.Passes(q.Score) {
		log.Debug("below quality threshold", logger.Float64("score", q.Score))
		return OutcomeLowQuality
	}

	verdict := p.d.Dedup.Check(ctx, title, body)
	if verdict.Duplicate {
		log.Debug("near duplicate", logger.Float64("similarity", verdict.MaxSimilarity))
		return OutcomeDuplicate
	}

	category := p.d.Classifier.Categorize(title, body, c.url, c.hint)

	art := &Article{
		ID:               hashURL(c.url),
		Title:            title,
		Body:             body,
		Summary:          truncateRunes(body, summaryRunes),
		SourceName:       src.Name,
		SourceURL:        c.url,
		ImageURL:         raw.ImageURL,
		Author:           raw.Author,
		PublishTime:      raw.PublishTime,
		Category:         category,
		Region:           src.Region,
		Embedding:        verdict.Vector,
		QualityScore:     q.Score,
		ReadabilityScore: q.Readability,
		ReadTimeMinutes:  q.ReadTimeMinutes,
		IsClickbait:      q.Clickbait,
		FeedScore:        q.Score,
		CreatedAt:        p.d.Now(),
	}
	inserted, err := p.d.Store.InsertArticle(ctx, art)
	if err != nil {
		log.Warn("persist failed", logger.Error(fmt.Errorf("insert article: %w", err)))
		return OutcomeError
	}
	if !inserted {
		return OutcomeDuplicate
	}
	log.Debug("article added", logger.String("category", category), logger.Float64("quality", q.Score))
	return OutcomeAdded
}

func hashURL(url string) string {
	h := sha1.New()
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}

// truncateRunes cuts s to limit runes and appends "..." when it was longer.
func truncateRunes(s string, limit int) string {
	rs := []rune(strings.TrimSpace(s))
	if len(rs) <= limit {
		return string(rs)
	}
	return strings.TrimSpace(string(rs[:limit])) + "..."
}

type nopRecorder struct{}

func (nopRecorder) Outcome(string, Outcome) {}
func (nopRecorder) SourceRun(string, int, time.Duration) {}
