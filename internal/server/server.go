/*
PURPOSE:
  Serves stored benchmark results over HTTP for the static dashboard and scripts.

REQUIREMENTS:
  User-specified:
  - Dashboard reads the result history as a JSON array.

  Implementation-discovered:
  - The store file is re-read on every request so runs appended while serving show up.
  - A legacy single-object file is still served as an array.
  - Read-only: the server never writes the store.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (serve)
  - Uses: internal/store, internal/output
  - Dependencies: github.com/gin-gonic/gin

ERROR HANDLING:
  - A corrupt store is a 500 with the error text; the file is not touched.

USAGE:
  srv := server.New(store.NewJSONFile(path), server.Options{Addr: ":8080"})
  err := srv.Run(ctx)
*/

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pibench/pibench/internal/model"
	"github.com/pibench/pibench/internal/output"
	"github.com/pibench/pibench/internal/store"
)

// Options configures a Server.
type Options struct {
	Addr string
	// Dashboard is a directory of static files served for unmatched GET paths.
	Dashboard string
}

// Server exposes a result store over HTTP.
type Server struct {
	opts   Options
	store  store.Store
	router *gin.Engine
}

// New creates a new Server.
func New(st store.Store, opts Options) *Server {
	s := &Server{opts: opts, store: st}
	s.router = s.setupRouter()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/results.json", s.listResults)

	api := r.Group("/api")
	{
		api.GET("/results", s.listResults)
		api.GET("/results/latest", s.latestResult)
		api.GET("/summary", s.summary)
	}

	if s.opts.Dashboard != "" {
		files := http.FileServer(http.Dir(s.opts.Dashboard))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}

	return r
}

func (s *Server) load(c *gin.Context) ([]model.ResultRecord, bool) {
	records, err := s.store.Load()
	if err != nil {
		output.Logger.Error("Failed to load results", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if records == nil {
		records = []model.ResultRecord{}
	}
	return records, true
}

func (s *Server) listResults(c *gin.Context) {
	records, ok := s.load(c)
	if !ok {
		return
	}
	if m := c.Query("mode"); m != "" {
		mode, err := model.ParseMode(m)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filtered := make([]model.ResultRecord, 0, len(records))
		for _, r := range records {
			if r.ModeOf() == mode {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) latestResult(c *gin.Context) {
	records, ok := s.load(c)
	if !ok {
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no results recorded"})
		return
	}
	c.JSON(http.StatusOK, records[len(records)-1])
}

func (s *Server) summary(c *gin.Context) {
	records, ok := s.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total": len(records),
		"modes": store.Summarize(records),
	})
}

// ModeForLevel picks the gin mode for a log level. Only debug logging gets
// gin's route dump and warnings, which go to stdout.
func ModeForLevel(l slog.Level) string {
	if l <= slog.LevelDebug {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		output.Logger.Info("Serving results", "addr", s.opts.Addr, "dashboard", s.opts.Dashboard)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		output.Logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		output.Logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
