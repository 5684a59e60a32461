package trend

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	articles []Article
	topics   map[string]Topic
	bumps    map[string]float64
	since    time.Time
	err      error
}

func newMemStore(arts ...Article) *memStore {
	return &memStore{articles: arts, topics: make(map[string]Topic), bumps: make(map[string]float64)}
}

func (m *memStore) RecentArticles(_ context.Context, since time.Time) ([]Article, error) {
	m.since = since
	if m.err != nil {
		return nil, m.err
	}
	var out []Article
	for _, a := range m.articles {
		if !a.PublishTime.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ReplaceTopics(_ context.Context, topics []Topic) error {
	next := make(map[string]Topic, len(topics))
	for _, t := range topics {
		next[t.Topic] = t
	}
	m.topics = next
	return nil
}

func (m *memStore) BumpFeedScore(_ context.Context, id string, delta float64) error {
	m.bumps[id] += delta
	return nil
}

func (m *memStore) topicNames() []string {
	var out []string
	for k := range m.topics {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func analyzer(s Store, topN int) *Analyzer {
	a := NewAnalyzer(s, Config{TopN: topN}, nil)
	a.now = func() time.Time { return now }
	return a
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"markets", "rally", "inflation", "cools"},
		Tokenize("Markets rally as inflation cools; why it is NEW"))
	assert.Empty(t, Tokenize("The big one"))
}

func TestTokenizeUnicodeWords(t *testing.T) {
	assert.Equal(t, []string{"bogotá", "floods", "zürich"}, Tokenize("Bogotá floods, Zürich dry"))
	assert.Equal(t, []string{"paulo", "rains"}, Tokenize("São Paulo rains"))
}

func TestTopTokensDeterministic(t *testing.T) {
	counts := map[string]int{"zeta": 2, "alpha": 2, "beta": 5, "gamma": 1}
	assert.Equal(t, []string{"beta", "alpha", "zeta"}, TopTokens(counts, 3))
}

func TestRunBuildsTopicsAndBoostsBest(t *testing.T) {
	store := newMemStore(
		Article{ID: "a", Title: "Election results announced", QualityScore: 60, PublishTime: now.Add(-time.Hour)},
		Article{ID: "b", Title: "Election turnout hits record", QualityScore: 80, PublishTime: now.Add(-2 * time.Hour)},
		Article{ID: "c", Title: "Election night: live coverage", QualityScore: 70, PublishTime: now.Add(-3 * time.Hour)},
		Article{ID: "d", Title: "Storm warning issued", QualityScore: 95, PublishTime: now.Add(-time.Hour)},
		Article{ID: "old", Title: "Election history lesson", QualityScore: 99, PublishTime: now.Add(-13 * time.Hour)},
	)

	res, err := analyzer(store, 3).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, now.Add(-12*time.Hour), store.since)
	assert.Equal(t, 4, res.Articles)
	require.Len(t, res.Topics, 3)
	assert.Equal(t, "Election", res.Topics[0].Topic)
	assert.Equal(t, 3, res.Topics[0].ArticleCount)
	assert.Equal(t, now, res.Topics[0].LastUpdated)

	assert.Equal(t, "b", res.Boosted)
	assert.Equal(t, map[string]float64{"b": 2.0}, store.bumps)
}

func TestRunReplacesStaleTopics(t *testing.T) {
	store := newMemStore(
		Article{ID: "1", Title: "Volcano erupts overnight", PublishTime: now},
		Article{ID: "2", Title: "Volcano ash grounds flights", PublishTime: now},
	)
	a := analyzer(store, 10)

	_, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Erupts", "Flights", "Grounds", "Overnight", "Volcano"}, store.topicNames())

	store.articles = []Article{
		{ID: "3", Title: "Parliament passes budget", PublishTime: now},
	}
	_, err = a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Budget", "Parliament", "Passes"}, store.topicNames())
}

func TestRunWithNoArticlesClearsTopics(t *testing.T) {
	store := newMemStore()
	store.topics["Stale"] = Topic{Topic: "Stale"}

	res, err := analyzer(store, 10).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Topics)
	assert.Empty(t, store.topics)
	assert.Empty(t, store.bumps)
}

func TestRunPropagatesLoadError(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("db down")

	_, err := analyzer(store, 10).Run(context.Background())
	assert.Error(t, err)
}

func TestBetterTieBreaks(t *testing.T) {
	a := Article{ID: "a", QualityScore: 50, PublishTime: now}
	b := Article{ID: "b", QualityScore: 50, PublishTime: now.Add(-time.Minute)}
	assert.True(t, better(a, b))
	b.PublishTime = now
	assert.True(t, better(a, b))
	assert.False(t, better(b, a))
}
