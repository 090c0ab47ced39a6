// Package server exposes the current dataset generation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/locscore/core"
	"github.com/huangsam/locscore/internal/contract"
	"github.com/huangsam/locscore/internal/ingest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// HeaderGeneration carries the generation ID a response was computed from.
	HeaderGeneration = "X-Locscore-Generation"

	contextDatasetKey = "dataset"
	shutdownTimeout   = 10 * time.Second
)

// Server serves the dataset held by a DatasetHolder and reloads it on demand.
type Server struct {
	cfg      *contract.Config
	loader   *core.Loader
	holder   *core.DatasetHolder
	registry *prometheus.Registry
	metrics  *Metrics
	engine   *gin.Engine
}

// New creates a server without loading any data.
func New(cfg *contract.Config, mgr contract.CacheManager) *Server {
	var fetchStore contract.CacheStore
	if mgr != nil {
		fetchStore = mgr.GetFetchStore()
	}
	holder := core.NewDatasetHolder()
	registry := newRegistry()

	s := &Server{
		cfg:      cfg,
		loader:   core.NewLoader(cfg, ingest.NewDataSource(cfg, fetchStore), holder),
		holder:   holder,
		registry: registry,
		metrics:  NewMetrics(registry),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	api.POST("/refresh", s.handleRefresh)

	data := api.Group("")
	data.Use(s.CurrentDataset())
	data.GET("/dataset", s.handleDataset)
	data.GET("/snapshot", s.handleSnapshot)
	data.GET("/rolling", s.handleRolling)
	data.GET("/compare", s.handleCompare)
	data.GET("/locations/:name", s.handleLocation)
	data.GET("/report", s.handleReport)

	return r
}

// CurrentDataset pins the generation a request reads from and stamps its ID
// on the response.
func (s *Server) CurrentDataset() gin.HandlerFunc {
	return func(c *gin.Context) {
		ds := s.holder.Current()
		if ds == nil {
			AbortWithError(c, errNotReady)
			return
		}
		c.Header(HeaderGeneration, ds.Generation)
		c.Set(contextDatasetKey, ds)
		c.Next()
	}
}

// RequestLogger logs each request through zap at debug level.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zap.L().Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// Refresh builds a new generation and records the attempt in the metrics.
func (s *Server) Refresh(ctx context.Context) (*core.Dataset, error) {
	start := time.Now()
	ds, err := s.loader.Load(ctx)
	s.metrics.ObserveReload(ds, err == nil && s.holder.Current() == ds, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	zap.L().Info("dataset reloaded",
		zap.String("generation", ds.Generation),
		zap.String("source", string(ds.Source)),
		zap.Bool("degraded", ds.Degraded),
		zap.Int("months", len(ds.Index)))
	return ds, nil
}

// Start loads the first generation, schedules refreshes and serves until ctx
// is cancelled.
func Start(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	gin.SetMode(gin.ReleaseMode)
	s := New(cfg, mgr)
	if _, err := s.Refresh(ctx); err != nil {
		return err
	}

	sched, err := s.startScheduler(ctx)
	if err != nil {
		return err
	}
	defer func() { <-sched.Stop().Done() }()

	srv := &http.Server{
		Addr:              cfg.ServeAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	zap.L().Info("serving location scores",
		zap.String("addr", cfg.ServeAddr),
		zap.Duration("refresh", cfg.RefreshInterval))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	zap.L().Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
