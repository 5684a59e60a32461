// Package app wires configuration into a ready pipeline, trend analyzer and
// scheduler. Both binaries build on it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/LJTian/NewsHub/internal/categorizer"
	"github.com/LJTian/NewsHub/internal/collector"
	"github.com/LJTian/NewsHub/internal/config"
	"github.com/LJTian/NewsHub/internal/dedup"
	"github.com/LJTian/NewsHub/internal/extractor"
	"github.com/LJTian/NewsHub/internal/fetch"
	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/metrics"
	"github.com/LJTian/NewsHub/internal/processor"
	"github.com/LJTian/NewsHub/internal/quality"
	"github.com/LJTian/NewsHub/internal/scheduler"
	"github.com/LJTian/NewsHub/internal/source"
	"github.com/LJTian/NewsHub/internal/storage"
	"github.com/LJTian/NewsHub/internal/trend"
)

const startupDelay = 15 * time.Second

type App struct {
	Config    *config.Config
	Log       logger.Logger
	Registry  *source.Registry
	Keywords  []source.Descriptor
	Store     *storage.Store
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Pipeline  *processor.Pipeline
	Trends    *trend.Analyzer
	Scheduler *scheduler.Scheduler
}

// Build opens the store and constructs every component from cfg.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	reg, err := source.Load(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	keywords := source.SearchDescriptors(source.DefaultKeywords, source.DefaultSearchEndpoints)

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr, log)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	for _, d := range append(reg.All(), keywords...) {
		if err := store.EnsureSource(ctx, d); err != nil {
			return nil, fmt.Errorf("ensure source %s: %w", d.Name, err)
		}
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promReg)

	client := fetch.New(fetch.Options{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.Timeout,
		HostRPS:   cfg.Fetch.HostRPS,
	})
	discoverers := collector.NewRegistryFor(append(reg.All(), keywords...), client, collector.Options{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.Timeout,
		MaxLinks:  cfg.Fetch.MaxLinks,
		Logger:    log,
	})

	var embedder dedup.Embedder = dedup.NopEmbedder{Dimensions: cfg.Embedding.Dim}
	if cfg.Embedding.OllamaURL != "" {
		embedder = dedup.NewOllamaEmbedder(cfg.Embedding.OllamaURL, cfg.Embedding.Model, cfg.Embedding.Dim, cfg.Fetch.Timeout)
	} else {
		log.Info("OLLAMA_URL not set, semantic dedup disabled")
	}

	rules := categorizer.DefaultRules()
	rules.MinScore = cfg.Category.MinScore
	rules.HintBonus = cfg.Category.HintBonus
	rules.URLBonus = cfg.Category.URLBonus

	pipeline := processor.New(processor.Deps{
		Store:      store,
		Discoverer: discoverers,
		Extractor:  extractor.New(client, log, extractor.WithMinBodyChars(cfg.Pipeline.MinBodyChars)),
		Quality:    quality.NewEngine(cfg.Pipeline.MinQuality),
		Dedup: dedup.New(embedder, store, dedup.Config{
			Threshold: cfg.Dedup.Threshold,
			Window:    cfg.Dedup.Window,
			Sample:    cfg.Dedup.Sample,
		}, log),
		Classifier: categorizer.New(rules),
		Recorder:   m,
		Logger:     log,
		Workers:    cfg.Pipeline.CandidateWorkers,
		Now:        config.Now,
	})

	analyzer := trend.NewAnalyzer(store, trend.Config{
		Window: cfg.Trend.Window,
		TopN:   cfg.Trend.TopN,
		Boost:  cfg.Trend.Boost,
	}, log)

	sched, err := scheduler.New(scheduler.Config{
		Tier1:        cfg.Schedule.Tier1,
		Tier2:        cfg.Schedule.Tier2,
		Tier3:        cfg.Schedule.Tier3,
		Trend:        cfg.Schedule.Trend,
		Keyword:      cfg.Schedule.Keyword,
		Workers:      cfg.Schedule.SourceWorkers,
		QueueSize:    cfg.Schedule.QueueSize,
		StartupDelay: startupDelay,
	}, reg, keywords, pipeline, analyzer, m, log)
	if err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	return &App{
		Config:    cfg,
		Log:       log,
		Registry:  reg,
		Keywords:  keywords,
		Store:     store,
		Metrics:   m,
		Gatherer:  promReg,
		Pipeline:  pipeline,
		Trends:    analyzer,
		Scheduler: sched,
	}, nil
}
