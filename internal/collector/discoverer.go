// Package collector discovers candidate article links on source index pages.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/source"
)

// Discoverer returns candidate article URLs for one entrypoint. Failures are
// logged and produce an empty result, never an error.
type Discoverer interface {
	Name() string
	Discover(ctx context.Context, entry source.Entrypoint) []string
}

// Registry selects a Discoverer by source name, falling back to the generic
// heuristic for sources without a registered family.
type Registry struct {
	mu       sync.RWMutex
	bySource map[string]Discoverer
	fallback Discoverer
}

func NewRegistry(fallback Discoverer) *Registry {
	return &Registry{bySource: make(map[string]Discoverer), fallback: fallback}
}

func (r *Registry) Register(sourceName string, d Discoverer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySource[sourceName] = d
}

func (r *Registry) For(sourceName string) Discoverer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.bySource[sourceName]; ok {
		return d
	}
	return r.fallback
}

func (r *Registry) Discover(ctx context.Context, src source.Descriptor, entry source.Entrypoint) []string {
	return r.For(src.Name).Discover(ctx, entry)
}

// Options configure every discoverer built by NewRegistryFor.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	MaxLinks  int
	Logger    logger.Logger
}

// HTTPGetter is the outbound client used by API and feed discoverers.
type HTTPGetter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// NewRegistryFor builds the registry for a set of descriptors, binding each
// descriptor's Family to its implementation. Unknown families use the
// generic discoverer.
func NewRegistryFor(descs []source.Descriptor, client HTTPGetter, opts Options) *Registry {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With(logger.String("component", "collector"))

	timeout := opts.Timeout
	generic := NewGeneric("generic", GenericLinkFilter(), opts.UserAgent, timeout, opts.MaxLinks, log)
	families := map[string]Discoverer{
		"bbc":          NewGeneric("bbc", BBCLinkFilter(), opts.UserAgent, timeout, opts.MaxLinks, log),
		"cnn":          NewGeneric("cnn", CNNLinkFilter(), opts.UserAgent, timeout, opts.MaxLinks, log),
		"verge":        NewGeneric("verge", VergeLinkFilter(), opts.UserAgent, timeout, opts.MaxLinks, log),
		"timesofindia": NewGeneric("timesofindia", TimesOfIndiaLinkFilter(), opts.UserAgent, timeout, opts.MaxLinks, log),
		"hackernews":   NewHackerNews(client, opts.MaxLinks, log),
		"rss":          NewFeed(client, opts.MaxLinks, log),
	}

	reg := NewRegistry(generic)
	for _, d := range descs {
		if d.Family == "" {
			continue
		}
		impl, ok := families[d.Family]
		if !ok {
			log.Warn("unknown discovery family, using generic",
				logger.String("source", d.Name), logger.String("family", d.Family))
			continue
		}
		reg.Register(d.Name, impl)
	}
	return reg
}
