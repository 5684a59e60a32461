package collector

import (
	"context"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/source"
)

// Generic crawls one index page with colly and keeps anchors accepted by its
// LinkFilter.
type Generic struct {
	name      string
	filter    LinkFilter
	userAgent string
	timeout   time.Duration
	maxLinks  int
	log       logger.Logger
}

func NewGeneric(name string, filter LinkFilter, userAgent string, timeout time.Duration, maxLinks int, log logger.Logger) *Generic {
	if log == nil {
		log = logger.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Generic{
		name:      name,
		filter:    filter,
		userAgent: userAgent,
		timeout:   timeout,
		maxLinks:  maxLinks,
		log:       log.With(logger.String("discoverer", name)),
	}
}

func (g *Generic) Name() string { return g.name }

func (g *Generic) Discover(ctx context.Context, entry source.Entrypoint) []string {
	if ctx.Err() != nil {
		return nil
	}

	c := colly.NewCollector()
	if g.userAgent != "" {
		c.UserAgent = g.userAgent
	}
	c.SetRequestTimeout(g.timeout)

	links := newLinkSet(g.maxLinks)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if links.full() {
			return
		}
		abs, ok := Normalize(e.Request.AbsoluteURL(e.Attr("href")))
		if !ok || abs == entry.URL {
			return
		}
		if g.filter.Allow(abs) {
			links.add(abs)
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		g.log.Warn("index fetch failed",
			logger.String("url", entry.URL),
			logger.Int("status", r.StatusCode),
			logger.Error(err))
	})

	if err := c.Visit(entry.URL); err != nil {
		g.log.Debug("visit returned error", logger.String("url", entry.URL), logger.Error(err))
	}
	c.Wait()

	g.log.Debug("links discovered", logger.String("url", entry.URL), logger.Int("count", len(links.list)))
	return links.list
}
