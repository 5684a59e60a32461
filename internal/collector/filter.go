package collector

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

const (
	defaultMinLinkLength = 25
	defaultMaxLinks      = 20
	minSlugWords         = 4
)

var (
	yearToken = regexp.MustCompile(`/20\d{2}`)

	contentMarkers = []string{"/news/", "/article/", "/story/", "articleshow", "/sport/", "/national/"}

	navSegments = map[string]bool{
		"login": true, "signin": true, "signup": true, "register": true,
		"contact": true, "about": true, "privacy": true, "terms": true,
		"tag": true, "tags": true, "author": true, "authors": true, "page": true,
		"feed": true, "rss": true, "sitemap": true, "account": true,
		"subscribe": true, "newsletter": true, "newsletters": true, "cookies": true,
	}

	skipExtensions = map[string]bool{
		".pdf": true, ".xml": true, ".json": true, ".css": true, ".js": true,
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
		".ico": true, ".zip": true, ".mp3": true, ".mp4": true, ".webp": true,
	}
)

// LinkFilter decides whether a resolved URL looks like an article. Signal,
// when set, replaces the generic article signals for a source family; the
// length and navigation checks always apply.
type LinkFilter struct {
	MinLength int
	Signal    func(u *url.URL) bool
}

func GenericLinkFilter() LinkFilter {
	return LinkFilter{MinLength: defaultMinLinkLength}
}

// BBCLinkFilter keeps /news/ pages at least three segments deep, which skips
// the section roots.
func BBCLinkFilter() LinkFilter {
	return LinkFilter{MinLength: defaultMinLinkLength, Signal: func(u *url.URL) bool {
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		return strings.Contains(u.Path, "/news/") && len(segs) >= 3
	}}
}

func CNNLinkFilter() LinkFilter {
	return LinkFilter{MinLength: defaultMinLinkLength, Signal: func(u *url.URL) bool {
		return strings.Contains(u.Path, "/202")
	}}
}

func VergeLinkFilter() LinkFilter {
	return LinkFilter{MinLength: defaultMinLinkLength, Signal: func(u *url.URL) bool {
		return len(u.Path) > 25
	}}
}

func TimesOfIndiaLinkFilter() LinkFilter {
	return LinkFilter{MinLength: defaultMinLinkLength, Signal: func(u *url.URL) bool {
		return strings.Contains(u.Path, "articleshow")
	}}
}

// Normalize strips the fragment and reports whether raw is an absolute
// http(s) URL.
func Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	u.Fragment = ""
	return u.String(), true
}

func (f LinkFilter) Allow(raw string) bool {
	if len(raw) <= f.MinLength {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if isNavigation(u) {
		return false
	}
	if f.Signal != nil {
		return f.Signal(u)
	}
	return hasArticleSignal(u)
}

func isNavigation(u *url.URL) bool {
	p := strings.TrimSuffix(strings.ToLower(u.Path), "/")
	if p == "" {
		return true
	}
	if skipExtensions[path.Ext(p)] {
		return true
	}
	for _, seg := range strings.Split(p, "/") {
		if navSegments[seg] {
			return true
		}
	}
	return false
}

func hasArticleSignal(u *url.URL) bool {
	p := strings.ToLower(u.Path)
	if yearToken.MatchString(p) {
		return true
	}
	for _, m := range contentMarkers {
		if strings.Contains(p, m) {
			return true
		}
	}
	return isLongSlug(path.Base(strings.TrimSuffix(p, "/")))
}

func isLongSlug(seg string) bool {
	seg = strings.TrimSuffix(seg, path.Ext(seg))
	words := 0
	for _, w := range strings.Split(seg, "-") {
		if w != "" {
			words++
		}
	}
	return words >= minSlugWords
}

// linkSet accumulates unique links up to a cap.
type linkSet struct {
	max  int
	seen map[string]bool
	list []string
}

func newLinkSet(max int) *linkSet {
	if max <= 0 {
		max = defaultMaxLinks
	}
	return &linkSet{max: max, seen: make(map[string]bool)}
}

func (s *linkSet) add(link string) bool {
	if s.full() || s.seen[link] {
		return false
	}
	s.seen[link] = true
	s.list = append(s.list, link)
	return true
}

func (s *linkSet) full() bool { return len(s.list) >= s.max }
