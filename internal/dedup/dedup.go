// Package dedup detects near-duplicate articles by comparing embeddings
// against recently stored ones.
package dedup

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/LJTian/NewsHub/internal/logger"
)

const (
	DefaultThreshold = 0.9
	DefaultWindow    = 48 * time.Hour
	DefaultSample    = 1000
	leadRunes        = 500
)

// EmbeddingSource returns embeddings of articles stored since a point in
// time, newest first, at most limit of them.
type EmbeddingSource interface {
	RecentEmbeddings(ctx context.Context, since time.Time, limit int) ([][]float32, error)
}

type Config struct {
	// Threshold is exclusive: a similarity equal to it is not a duplicate.
	Threshold float64
	Window    time.Duration
	Sample    int
}

type Verdict struct {
	// Vector is nil when the embedder produced nothing usable.
	Vector        []float32
	Duplicate     bool
	MaxSimilarity float64
}

type Deduplicator struct {
	embedder Embedder
	recent   EmbeddingSource
	cfg      Config
	now      func() time.Time
	log      logger.Logger
}

func New(embedder Embedder, recent EmbeddingSource, cfg Config, log logger.Logger) *Deduplicator {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Sample <= 0 {
		cfg.Sample = DefaultSample
	}
	if embedder == nil {
		embedder = NopEmbedder{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Deduplicator{
		embedder: embedder,
		recent:   recent,
		cfg:      cfg,
		now:      time.Now,
		log:      log.With(logger.String("component", "dedup")),
	}
}

// EmbedText is the text embedded for an article: the title plus the lead of
// the body.
func EmbedText(title, body string) string {
	if utf8.RuneCountInString(body) > leadRunes {
		body = string([]rune(body)[:leadRunes])
	}
	return title + "\n" + body
}

// Check embeds the article and compares it with the recent window. Embedding
// or store failures degrade to "not a duplicate".
func (d *Deduplicator) Check(ctx context.Context, title, body string) Verdict {
	vec, err := d.embedder.Embed(ctx, EmbedText(title, body))
	if err != nil {
		d.log.Warn("embedding failed, skipping semantic dedup", logger.Error(err))
		return Verdict{}
	}
	if isZero(vec) {
		return Verdict{}
	}
	if dim := d.embedder.Dim(); dim > 0 && len(vec) != dim {
		d.log.Warn("embedding dimension mismatch, skipping semantic dedup",
			logger.Int("got", len(vec)), logger.Int("want", dim))
		return Verdict{}
	}

	existing, err := d.recent.RecentEmbeddings(ctx, d.now().Add(-d.cfg.Window), d.cfg.Sample)
	if err != nil {
		d.log.Warn("load recent embeddings failed", logger.Error(err))
		return Verdict{Vector: vec}
	}

	dup, best := IsDuplicate(vec, existing, d.cfg.Threshold)
	return Verdict{Vector: vec, Duplicate: dup, MaxSimilarity: best}
}

// IsDuplicate reports whether the best cosine similarity between vec and
// existing is strictly greater than threshold.
func IsDuplicate(vec []float32, existing [][]float32, threshold float64) (bool, float64) {
	best := 0.0
	for _, other := range existing {
		if s := Cosine(vec, other); s > best {
			best = s
		}
	}
	return best > threshold, best
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a
// zero vector or their lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
