package extractor

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type pageMeta struct {
	title     string
	author    string
	image     string
	published time.Time
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func extractMetadata(doc *goquery.Document) pageMeta {
	m := pageMeta{
		title:  metaContent(doc, `meta[property="og:title"]`, `meta[name="twitter:title"]`),
		author: metaContent(doc, `meta[name="author"]`, `meta[property="article:author"]`),
		image:  metaContent(doc, `meta[property="og:image"]`, `meta[name="twitter:image"]`),
		published: parseTime(metaContent(doc,
			`meta[property="article:published_time"]`,
			`meta[itemprop="datePublished"]`,
			`meta[name="pubdate"]`,
			`meta[name="date"]`,
		)),
	}
	if m.title == "" {
		m.title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	ld := extractJSONLD(doc)
	if m.author == "" {
		m.author = ld.author
	}
	if m.published.IsZero() {
		m.published = parseTime(ld.datePublished)
	}
	if m.image == "" {
		m.image = ld.image
	}
	if m.published.IsZero() {
		if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
			m.published = parseTime(v)
		}
	}
	return m
}

type jsonLD struct {
	author        string
	datePublished string
	image         string
}

// extractJSONLD reads the first Article-like object from ld+json scripts.
func extractJSONLD(doc *goquery.Document) jsonLD {
	var out jsonLD
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}
		for _, obj := range ldObjects(raw) {
			if !isArticleType(obj["@type"]) {
				continue
			}
			out.author = ldName(obj["author"])
			out.datePublished, _ = obj["datePublished"].(string)
			out.image = ldFirst(obj["image"])
			return false
		}
		return true
	})
	return out
}

func ldObjects(raw any) []map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			return ldObjects(graph)
		}
		return []map[string]any{v}
	case []any:
		var out []map[string]any
		for _, item := range v {
			out = append(out, ldObjects(item)...)
		}
		return out
	}
	return nil
}

func isArticleType(t any) bool {
	check := func(s string) bool {
		return strings.HasSuffix(s, "Article") || s == "BlogPosting" || s == "Report"
	}
	switch v := t.(type) {
	case string:
		return check(v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && check(s) {
				return true
			}
		}
	}
	return false
}

// ldName flattens author/image values: a string, {name|url}, or a list.
func ldName(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case map[string]any:
		if s, ok := x["name"].(string); ok {
			return strings.TrimSpace(s)
		}
		if s, ok := x["url"].(string); ok {
			return strings.TrimSpace(s)
		}
	case []any:
		var names []string
		for _, item := range x {
			if n := ldName(item); n != "" {
				names = append(names, n)
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}

func ldFirst(v any) string {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		return ldName(list[0])
	}
	return ldName(v)
}
