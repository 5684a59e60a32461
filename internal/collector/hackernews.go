package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/source"
)

const (
	hnDefaultTopStories = "https://hacker-news.firebaseio.com/v0/topstories.json"
	hnConcurrency       = 10
)

// HackerNews discovers story URLs through the official Firebase API; the
// entrypoint URL is the topstories endpoint.
type HackerNews struct {
	client   HTTPGetter
	maxLinks int
	log      logger.Logger
}

func NewHackerNews(client HTTPGetter, maxLinks int, log logger.Logger) *HackerNews {
	if log == nil {
		log = logger.NewNop()
	}
	if maxLinks <= 0 {
		maxLinks = defaultMaxLinks
	}
	return &HackerNews{client: client, maxLinks: maxLinks, log: log.With(logger.String("discoverer", "hackernews"))}
}

func (h *HackerNews) Name() string { return "hackernews" }

type hnItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
	Dead  bool   `json:"dead"`
}

func (h *HackerNews) Discover(ctx context.Context, entry source.Entrypoint) []string {
	top := entry.URL
	if top == "" {
		top = hnDefaultTopStories
	}
	base := top[:strings.LastIndex(top, "/")]

	body, err := h.client.Get(ctx, top)
	if err != nil {
		h.log.Warn("fetch top stories failed", logger.String("url", top), logger.Error(err))
		return nil
	}
	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		h.log.Warn("decode top stories failed", logger.Error(err))
		return nil
	}
	// Self posts have no URL, so read a few more ids than needed.
	if n := h.maxLinks * 2; len(ids) > n {
		ids = ids[:n]
	}

	var (
		wg    sync.WaitGroup
		sem   = make(chan struct{}, hnConcurrency)
		items = make([]hnItem, len(ids))
	)
	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx, id int) {
			defer wg.Done()
			defer func() { <-sem }()

			it, err := h.fetchItem(ctx, base, id)
			if err != nil {
				h.log.Debug("fetch item failed", logger.Int("id", id), logger.Error(err))
				return
			}
			items[idx] = it
		}(i, id)
	}
	wg.Wait()

	links := newLinkSet(h.maxLinks)
	for _, it := range items {
		if it.Type != "story" || it.Dead || it.Title == "" {
			continue
		}
		if u, ok := Normalize(it.URL); ok {
			links.add(u)
		}
	}
	return links.list
}

func (h *HackerNews) fetchItem(ctx context.Context, base string, id int) (hnItem, error) {
	body, err := h.client.Get(ctx, fmt.Sprintf("%s/item/%d.json", base, id))
	if err != nil {
		return hnItem{}, err
	}
	var it hnItem
	if err := json.Unmarshal(body, &it); err != nil {
		return hnItem{}, fmt.Errorf("decode item %d: %w", id, err)
	}
	return it, nil
}
