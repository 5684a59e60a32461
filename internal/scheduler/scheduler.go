// Package scheduler dispatches per-tier source runs, trend runs and the
// keyword crawl onto a bounded job queue drained by a fixed worker pool.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/processor"
	"github.com/LJTian/NewsHub/internal/source"
	"github.com/LJTian/NewsHub/internal/trend"
)

var ErrQueueFull = errors.New("scheduler: job queue full")

const trendJobName = "trends"

type Runner interface {
	RunSource(ctx context.Context, src source.Descriptor) processor.RunStats
}

type TrendRunner interface {
	Run(ctx context.Context) (trend.Result, error)
}

// Recorder is satisfied by metrics.Metrics.
type Recorder interface {
	DroppedJob(job string)
	TrendRun(topics int, err error)
}

type Config struct {
	Tier1   time.Duration
	Tier2   time.Duration
	Tier3   time.Duration
	Trend   time.Duration
	Keyword time.Duration

	Workers   int
	QueueSize int
	// StartupDelay enqueues a first tier-1 round this long after Start.
	// Zero disables it.
	StartupDelay time.Duration
}

type Job struct {
	ID   string
	Name string
	Run  func(ctx context.Context)
}

type Scheduler struct {
	cfg      Config
	cron     *cron.Cron
	registry *source.Registry
	keywords []source.Descriptor
	runner   Runner
	trends   TrendRunner
	rec      Recorder
	log      logger.Logger

	jobs chan Job

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// New registers one cron entry per non-zero interval. keywords are the
// synthetic search descriptors run on the keyword interval.
func New(cfg Config, reg *source.Registry, keywords []source.Descriptor, runner Runner, trends TrendRunner, rec Recorder, log logger.Logger) (*Scheduler, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if log == nil {
		log = logger.NewNop()
	}
	s := &Scheduler{
		cfg:      cfg,
		cron:     cron.New(),
		registry: reg,
		keywords: keywords,
		runner:   runner,
		trends:   trends,
		rec:      rec,
		log:      log.With(logger.String("component", "scheduler")),
		jobs:     make(chan Job, cfg.QueueSize),
	}

	entries := []struct {
		every time.Duration
		fn    func()
	}{
		{cfg.Tier1, func() { s.enqueueTier(source.TierBreaking) }},
		{cfg.Tier2, func() { s.enqueueTier(source.TierSpecialist) }},
		{cfg.Tier3, func() { s.enqueueTier(source.TierDeepDive) }},
		{cfg.Trend, func() { _ = s.TriggerTrends() }},
		{cfg.Keyword, s.enqueueKeywords},
	}
	for _, e := range entries {
		if e.every <= 0 {
			continue
		}
		if _, err := s.cron.AddFunc("@every "+e.every.String(), e.fn); err != nil {
			return nil, fmt.Errorf("schedule @every %s: %w", e.every, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	s.cron.Start()

	if s.cfg.StartupDelay > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			select {
			case <-ctx.Done():
			case <-time.After(s.cfg.StartupDelay):
				s.enqueueTier(source.TierBreaking)
			}
		}()
	}
	s.log.Info("scheduler started",
		logger.Int("workers", s.cfg.Workers),
		logger.Int("queue", s.cfg.QueueSize))
}

// Stop halts new ticks, cancels in-flight jobs and waits for the workers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	cancel()
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

// Trigger enqueues one run of the named source.
func (s *Scheduler) Trigger(name string) error {
	desc, err := s.lookup(name)
	if err != nil {
		return err
	}
	return s.enqueue(s.sourceJob(desc))
}

func (s *Scheduler) TriggerTrends() error {
	return s.enqueue(Job{ID: uuid.NewString(), Name: trendJobName, Run: s.runTrends})
}

// RunOnce runs every registered source, bounded by the worker count, and
// then one trend pass. It blocks until all of them finish.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	var (
		mu    sync.Mutex
		added int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, desc := range s.registry.All() {
		desc := desc
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			st := s.runner.RunSource(gctx, desc)
			mu.Lock()
			added += st.Added
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() == nil {
		s.runTrends(ctx)
	}
	return added
}

// Sources lists the registry plus keyword descriptors.
func (s *Scheduler) Sources() []source.Descriptor {
	out := s.registry.All()
	return append(out, s.keywords...)
}

func (s *Scheduler) lookup(name string) (source.Descriptor, error) {
	desc, err := s.registry.Lookup(name)
	if err == nil {
		return desc, nil
	}
	for _, k := range s.keywords {
		if k.Name == name {
			return k, nil
		}
	}
	return source.Descriptor{}, err
}

func (s *Scheduler) enqueueTier(t source.Tier) {
	for _, desc := range s.registry.ByTier(t) {
		_ = s.enqueue(s.sourceJob(desc))
	}
}

func (s *Scheduler) enqueueKeywords() {
	for _, desc := range s.keywords {
		_ = s.enqueue(s.sourceJob(desc))
	}
}

func (s *Scheduler) sourceJob(desc source.Descriptor) Job {
	return Job{
		ID:   uuid.NewString(),
		Name: desc.Name,
		Run: func(ctx context.Context) {
			s.runner.RunSource(ctx, desc)
		},
	}
}

func (s *Scheduler) runTrends(ctx context.Context) {
	if s.trends == nil {
		return
	}
	res, err := s.trends.Run(ctx)
	if s.rec != nil {
		s.rec.TrendRun(len(res.Topics), err)
	}
	if err != nil {
		s.log.Error("trend run failed", logger.Error(err))
	}
}

// enqueue never blocks; a full queue drops the job.
func (s *Scheduler) enqueue(job Job) error {
	select {
	case s.jobs <- job:
		return nil
	default:
		s.log.Warn("queue full, dropping job",
			logger.String("job", job.Name),
			logger.String("job_id", job.ID))
		if s.rec != nil {
			s.rec.DroppedJob(job.Name)
		}
		return ErrQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.run(ctx, job)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("job panicked",
				logger.String("job", job.Name),
				logger.String("job_id", job.ID),
				logger.Any("panic", r))
		}
	}()
	start := time.Now()
	job.Run(ctx)
	s.log.Debug("job done",
		logger.String("job", job.Name),
		logger.String("job_id", job.ID),
		logger.Duration("elapsed", time.Since(start)))
}
