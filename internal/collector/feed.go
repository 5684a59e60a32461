package collector

import (
	"bytes"
	"context"

	"github.com/mmcdole/gofeed"

	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/source"
)

// Feed reads item links from an RSS or Atom entrypoint.
type Feed struct {
	client   HTTPGetter
	maxLinks int
	log      logger.Logger
}

func NewFeed(client HTTPGetter, maxLinks int, log logger.Logger) *Feed {
	if log == nil {
		log = logger.NewNop()
	}
	return &Feed{client: client, maxLinks: maxLinks, log: log.With(logger.String("discoverer", "rss"))}
}

func (f *Feed) Name() string { return "rss" }

func (f *Feed) Discover(ctx context.Context, entry source.Entrypoint) []string {
	body, err := f.client.Get(ctx, entry.URL)
	if err != nil {
		f.log.Warn("fetch feed failed", logger.String("url", entry.URL), logger.Error(err))
		return nil
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		f.log.Warn("parse feed failed", logger.String("url", entry.URL), logger.Error(err))
		return nil
	}

	links := newLinkSet(f.maxLinks)
	for _, item := range feed.Items {
		if links.full() {
			break
		}
		link := item.Link
		if link == "" && len(item.Links) > 0 {
			link = item.Links[0]
		}
		if u, ok := Normalize(link); ok {
			links.add(u)
		}
	}
	return links.list
}
