package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenericLinkFilter(t *testing.T) {
	f := GenericLinkFilter()
	tests := []struct {
		url  string
		want bool
	}{
		{"https://news.test/2024/05/01/rates-rise", true},
		{"https://news.test/world/news/elections-today", true},
		{"https://news.test/science/a-long-article-slug-2024", true},
		{"https://news.test/india/articleshow/12345.cms", true},
		{"https://news.test/story/short", true},
		{"https://news.test/", false},
		{"https://n.test/a-b-c-d", false},
		{"https://news.test/about/our-team-and-values", false},
		{"https://news.test/tag/climate-change-latest-news", false},
		{"https://news.test/files/2024/report-2024-final.pdf", false},
		{"https://news.test/section/technology", false},
		{"mailto:desk@news.test/news/something-long", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Allow(tt.url), tt.url)
	}
}

func TestFamilyFilters(t *testing.T) {
	assert.True(t, BBCLinkFilter().Allow("https://www.bbc.com/news/articles/c0kgzy1e7x3o"))
	assert.True(t, BBCLinkFilter().Allow("https://www.bbc.com/news/world/europe-12345678"))
	assert.False(t, BBCLinkFilter().Allow("https://www.bbc.com/news/world-europe-12345678"))
	assert.False(t, BBCLinkFilter().Allow("https://www.bbc.com/news/world-middle-east/"))
	assert.False(t, BBCLinkFilter().Allow("https://www.bbc.com/news"))
	assert.False(t, BBCLinkFilter().Allow("https://www.bbc.com/sport/football/68000000"))

	assert.True(t, CNNLinkFilter().Allow("https://edition.cnn.com/2024/05/01/world/story"))
	assert.False(t, CNNLinkFilter().Allow("https://edition.cnn.com/world/europe-news-roundup-today"))

	assert.True(t, VergeLinkFilter().Allow("https://www.theverge.com/tech/123/new-phone-review-lands"))
	assert.False(t, VergeLinkFilter().Allow("https://www.theverge.com/tech/reviews"))

	assert.True(t, TimesOfIndiaLinkFilter().Allow("https://timesofindia.indiatimes.com/india/x/articleshow/1.cms"))
	assert.False(t, TimesOfIndiaLinkFilter().Allow("https://timesofindia.indiatimes.com/2024/briefs-of-the-day"))
}

func TestNormalize(t *testing.T) {
	u, ok := Normalize(" https://a.test/news/x#comments ")
	assert.True(t, ok)
	assert.Equal(t, "https://a.test/news/x", u)

	_, ok = Normalize("/relative/path")
	assert.False(t, ok)
	_, ok = Normalize("javascript:void(0)")
	assert.False(t, ok)
}

func TestLinkSetCapsAndDedups(t *testing.T) {
	s := newLinkSet(2)
	assert.True(t, s.add("a"))
	assert.False(t, s.add("a"))
	assert.True(t, s.add("b"))
	assert.False(t, s.add("c"))
	assert.Equal(t, []string{"a", "b"}, s.list)
}
