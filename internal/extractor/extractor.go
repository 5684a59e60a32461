// Package extractor downloads a candidate page and pulls out the article
// title, body text and metadata.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/LJTian/NewsHub/internal/logger"
)

const DefaultMinBodyChars = 200

var (
	errNoTitle  = errors.New("empty title")
	errThinBody = errors.New("body below minimum length")
)

// Article is the transient result of extracting one page.
type Article struct {
	Title       string
	Body        string
	Author      string
	PublishTime time.Time
	ImageURL    string
	SourceURL   string
}

type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

type Extractor struct {
	client       Getter
	minBodyChars int
	now          func() time.Time
	log          logger.Logger
}

type Option func(*Extractor)

func WithMinBodyChars(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minBodyChars = n
		}
	}
}

// WithClock sets the ingestion clock used when a page has no publish time.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

func New(client Getter, log logger.Logger, opts ...Option) *Extractor {
	if log == nil {
		log = logger.NewNop()
	}
	e := &Extractor{
		client:       client,
		minBodyChars: DefaultMinBodyChars,
		now:          time.Now,
		log:          log.With(logger.String("component", "extractor")),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches rawURL and returns the article, or false when the page
// could not be fetched or does not look like an article.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (art *Article, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("extraction panicked", logger.String("url", rawURL), logger.Any("panic", r))
			art, ok = nil, false
		}
	}()

	body, err := e.client.Get(ctx, rawURL)
	if err != nil {
		e.log.Debug("page fetch failed", logger.String("url", rawURL), logger.Error(err))
		return nil, false
	}
	art, err = e.Parse(body, rawURL)
	if err != nil {
		e.log.Debug("page rejected", logger.String("url", rawURL), logger.Error(err))
		return nil, false
	}
	return art, true
}

// Parse extracts an article from an already downloaded page.
func (e *Extractor) Parse(page []byte, rawURL string) (*Article, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	meta := extractMetadata(doc)

	art := &Article{SourceURL: rawURL}
	if ra, err := readability.FromReader(bytes.NewReader(page), pageURL); err == nil {
		art.Title = strings.TrimSpace(ra.Title)
		art.Body = strings.TrimSpace(ra.TextContent)
		art.Author = strings.TrimSpace(ra.Byline)
		art.ImageURL = strings.TrimSpace(ra.Image)
	} else {
		e.log.Debug("readability failed, using paragraphs", logger.String("url", rawURL), logger.Error(err))
	}

	if art.Title == "" {
		art.Title = meta.title
	}
	if utf8.RuneCountInString(art.Body) < e.minBodyChars {
		if alt := paragraphText(doc); utf8.RuneCountInString(alt) > utf8.RuneCountInString(art.Body) {
			art.Body = alt
		}
	}
	if art.Author == "" {
		art.Author = meta.author
	}
	if art.ImageURL == "" {
		art.ImageURL = meta.image
	}
	if art.ImageURL != "" {
		if ref, err := url.Parse(art.ImageURL); err == nil {
			art.ImageURL = pageURL.ResolveReference(ref).String()
		}
	}
	art.PublishTime = meta.published
	if art.PublishTime.IsZero() {
		art.PublishTime = e.now()
	}

	if art.Title == "" {
		return nil, errNoTitle
	}
	if utf8.RuneCountInString(art.Body) < e.minBodyChars {
		return nil, errThinBody
	}
	return art, nil
}

func paragraphText(doc *goquery.Document) string {
	sel := doc.Find("article p")
	if sel.Length() == 0 {
		sel = doc.Find("p")
	}
	parts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}
