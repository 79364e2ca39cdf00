// Package server exposes lesson generation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/logger"
	"github.com/abhisek/lessonforge/internal/pipeline"
	"github.com/abhisek/lessonforge/internal/store"
)

// Generator is the lesson pipeline as seen by the handlers.
type Generator interface {
	Generate(ctx context.Context, req lesson.Request, ext *lesson.Extraction) (*pipeline.Result, error)
}

// Config controls the HTTP listener.
type Config struct {
	Addr string

	// RequestTimeout bounds a single lesson generation. Zero means no
	// bound beyond the client connection.
	RequestTimeout time.Duration
}

// Server owns the gin engine and its dependencies.
type Server struct {
	cfg    Config
	gen    Generator
	runs   store.RunRepo
	log    *logger.Logger
	engine *gin.Engine
}

// New builds the router. runs may be nil, in which case the run history
// endpoints answer 404.
func New(gen Generator, runs store.RunRepo, cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{cfg: cfg, gen: gen, runs: runs, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/healthz", s.health)
	v1 := r.Group("/v1")
	{
		v1.POST("/lessons", s.createLesson)
		v1.GET("/runs", s.listRuns)
		v1.GET("/runs/:lesson_id", s.getRun)
	}

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
