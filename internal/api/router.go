package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LJTian/NewsHub/internal/logger"
	"github.com/LJTian/NewsHub/internal/scheduler"
	"github.com/LJTian/NewsHub/internal/source"
	"github.com/LJTian/NewsHub/internal/trend"
)

// Dispatcher is the part of the scheduler the ops API drives.
type Dispatcher interface {
	Sources() []source.Descriptor
	Trigger(name string) error
	TriggerTrends() error
}

type TopicReader interface {
	TrendingTopics(ctx context.Context) ([]trend.Topic, error)
}

type Options struct {
	Gatherer      prometheus.Gatherer
	BasicAuthUser string
	BasicAuthPass string
	Logger        logger.Logger
}

type Server struct {
	jobs   Dispatcher
	topics TopicReader
	opts   Options
	log    logger.Logger
}

func NewServer(jobs Dispatcher, topics TopicReader, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{jobs: jobs, topics: topics, opts: opts, log: log.With(logger.String("component", "api"))}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	if s.opts.BasicAuthUser != "" {
		v1.Use(basicAuth(s.opts.BasicAuthUser, s.opts.BasicAuthPass))
	}
	{
		v1.GET("/sources", s.listSources)
		v1.POST("/sources/:name/run", s.runSource)
		v1.GET("/trends", s.listTrends)
		v1.POST("/trends/run", s.runTrends)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    s.jobs.Sources(),
	})
}

func (s *Server) runSource(c *gin.Context) {
	name := c.Param("name")
	err := s.jobs.Trigger(name)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"code": "accepted", "message": "run queued", "data": gin.H{"source": name}})
	case errors.Is(err, source.ErrUnknownSource):
		c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "message": "unknown source"})
	case errors.Is(err, scheduler.ErrQueueFull):
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": "busy", "message": "job queue full"})
	default:
		s.log.Error("trigger source failed", logger.String("source", name), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"code": "internal_error", "message": "internal server error"})
	}
}

func (s *Server) runTrends(c *gin.Context) {
	if err := s.jobs.TriggerTrends(); err != nil {
		if errors.Is(err, scheduler.ErrQueueFull) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"code": "busy", "message": "job queue full"})
			return
		}
		s.log.Error("trigger trends failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"code": "internal_error", "message": "internal server error"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"code": "accepted", "message": "run queued"})
}

func (s *Server) listTrends(c *gin.Context) {
	if s.topics == nil {
		c.JSON(http.StatusOK, gin.H{"code": "ok", "message": "success", "data": []trend.Topic{}})
		return
	}
	items, err := s.topics.TrendingTopics(c.Request.Context())
	if err != nil {
		s.log.Error("list trends failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}
