package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LJTian/NewsHub/internal/fetch"
	"github.com/LJTian/NewsHub/internal/source"
)

const indexHTML = `<html><body>
<a href="/">Home</a>
<a href="/about/our-editorial-team">About</a>
<a href="/world/2024/05/01/summit-ends">Summit</a>
<a href="/world/2024/05/01/summit-ends#comments">Summit comments</a>
<a href="https://elsewhere.test/story/big-scoop-today">Scoop</a>
<a href="/science/telescope-finds-distant-planet">Planet</a>
<a href="#top">Top</a>
<a href="javascript:void(0)">JS</a>
</body></html>`

func TestGenericDiscover(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(indexHTML))
	}))
	defer srv.Close()

	g := NewGeneric("generic", GenericLinkFilter(), "test-agent", time.Second, 20, nil)
	links := g.Discover(context.Background(), source.Entrypoint{URL: srv.URL + "/world"})

	assert.Equal(t, "test-agent", gotUA)
	assert.ElementsMatch(t, []string{
		srv.URL + "/world/2024/05/01/summit-ends",
		"https://elsewhere.test/story/big-scoop-today",
		srv.URL + "/science/telescope-finds-distant-planet",
	}, links)
}

func TestGenericDiscoverCapsLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString("<html><body>")
		for i := 0; i < 50; i++ {
			fmt.Fprintf(&b, `<a href="/news/2024/story-%d">s</a>`, i)
		}
		b.WriteString("</body></html>")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(b.String()))
	}))
	defer srv.Close()

	g := NewGeneric("generic", GenericLinkFilter(), "", time.Second, 15, nil)
	assert.Len(t, g.Discover(context.Background(), source.Entrypoint{URL: srv.URL}), 15)
}

func TestGenericDiscoverFetchFailureIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGeneric("generic", GenericLinkFilter(), "", time.Second, 20, nil)
	assert.Empty(t, g.Discover(context.Background(), source.Entrypoint{URL: srv.URL}))
}

func TestHackerNewsDiscover(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v0/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3,4]`))
	})
	mux.HandleFunc("/v0/item/", func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v0/item/"), ".json") {
		case "1":
			_, _ = w.Write([]byte(`{"id":1,"type":"story","title":"Go 2","url":"https://go.test/blog/go2"}`))
		case "2":
			_, _ = w.Write([]byte(`{"id":2,"type":"story","title":"Ask HN: anything"}`))
		case "3":
			_, _ = w.Write([]byte(`{"id":3,"type":"job","title":"Hiring","url":"https://jobs.test/x"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	hn := NewHackerNews(fetch.New(fetch.Options{}), 10, nil)
	links := hn.Discover(context.Background(), source.Entrypoint{URL: srv.URL + "/v0/topstories.json"})

	assert.Equal(t, []string{"https://go.test/blog/go2"}, links)
}

const rssXML = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>T</title>
<item><title>A</title><link>https://feed.test/2024/a-story</link></item>
<item><title>B</title><link>https://feed.test/2024/b-story#frag</link></item>
<item><title>A again</title><link>https://feed.test/2024/a-story</link></item>
</channel></rss>`

func TestFeedDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssXML))
	}))
	defer srv.Close()

	f := NewFeed(fetch.New(fetch.Options{}), 10, nil)
	links := f.Discover(context.Background(), source.Entrypoint{URL: srv.URL})

	assert.Equal(t, []string{"https://feed.test/2024/a-story", "https://feed.test/2024/b-story"}, links)
}

func TestRegistryForBindsFamilies(t *testing.T) {
	descs := []source.Descriptor{
		{Name: "BBC News", Family: "bbc"},
		{Name: "HN", Family: "hackernews"},
		{Name: "Odd", Family: "nope"},
		{Name: "Plain"},
	}
	reg := NewRegistryFor(descs, fetch.New(fetch.Options{}), Options{MaxLinks: 10})

	require.NotNil(t, reg.For("BBC News"))
	assert.Equal(t, "bbc", reg.For("BBC News").Name())
	assert.Equal(t, "hackernews", reg.For("HN").Name())
	assert.Equal(t, "generic", reg.For("Odd").Name())
	assert.Equal(t, "generic", reg.For("Plain").Name())
	assert.Equal(t, "generic", reg.For("unregistered").Name())
}
