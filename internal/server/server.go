// Package server exposes generation over HTTP. Projects are posted as JSON
// and answered with a zip archive or the artifact map; search criteria can
// be rendered to SQL or previewed against sample rows.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCache sets the response cache. A nil cache disables caching.
func WithCache(c Cache) Option {
	return func(s *Server) {
		s.cache = c
		s.custom = true
	}
}

// WithCacheSize sets the entry limit of the default cache.
func WithCacheSize(n int) Option {
	return func(s *Server) {
		s.size = n
	}
}

// WithCacheTTL sets how long generated responses are cached. Zero keeps
// them until the cache is cleared.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Server) {
		s.ttl = d
	}
}

// Server is the HTTP API.
type Server struct {
	engine *gin.Engine
	cache  Cache
	custom bool
	size   int
	ttl    time.Duration
	log    *slog.Logger
}

// New returns a server with a bounded in-process cache and a 10 minute
// cache TTL.
func New(opts ...Option) *Server {
	s := &Server{
		size: DefaultCacheSize,
		ttl:  10 * time.Minute,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.custom {
		s.cache = NewMemoryCache(s.size, s.ttl)
	}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), requestID(), requestLog(s.log))
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := r.Group("/api")
	{
		api.GET("/catalog", s.catalog)
		api.POST("/projects", s.archive)
		api.POST("/projects/artifacts", s.artifacts)
		api.POST("/predicates/sql", s.predicateSQL)
		api.POST("/predicates/preview", s.preview)
		api.DELETE("/cache", s.clearCache)
	}
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("server stopped")
	return nil
}
