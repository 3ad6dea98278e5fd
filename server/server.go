package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zeu5/thief-gridworld/grid"
	"github.com/zeu5/thief-gridworld/types"
)

// Server is a read-only HTTP view over the results of a comparison
type Server struct {
	Addr   string
	env    *grid.GridEnvironment
	logger zerolog.Logger
	server *http.Server

	lock    *sync.RWMutex
	results map[string]*types.Result
	order   []string
}

func NewServer(addr string, env *grid.GridEnvironment, logger zerolog.Logger) *Server {
	s := &Server{
		Addr:    addr,
		env:     env,
		logger:  logger,
		lock:    new(sync.RWMutex),
		results: make(map[string]*types.Result),
		order:   make([]string, 0),
	}
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	return s
}

// SetResults replaces the served results
func (s *Server) SetResults(results []*types.Result) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.results = make(map[string]*types.Result, len(results))
	s.order = make([]string, 0, len(results))
	for _, r := range results {
		if _, ok := s.results[r.Name]; !ok {
			s.order = append(s.order, r.Name)
		}
		s.results[r.Name] = r
	}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.GET("/healthz", s.handleHealth)
	r.GET("/results", s.handleList)
	r.GET("/results/:name", s.handleResult)
	r.GET("/results/:name/policy", s.handlePolicy)
	r.GET("/results/:name/values", s.handleValues)
	return r
}

// Start serves until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.Addr).Msg("serving results")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		if status >= 500 {
			level = zerolog.ErrorLevel
		} else if status >= 400 {
			level = zerolog.WarnLevel
		}
		s.logger.WithLevel(level).
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) lookup(c *gin.Context) (*types.Result, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	name := c.Param("name")
	r, ok := s.results[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no result named %s", name)})
	}
	return r, ok
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Summary is the listing entry of a result
type Summary struct {
	Name     string              `json:"name"`
	Stats    *types.RolloutStats `json:"stats,omitempty"`
	Duration string              `json:"duration"`
}

func (s *Server) handleList(c *gin.Context) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	out := make([]Summary, 0, len(s.order))
	for _, name := range s.order {
		r := s.results[name]
		out = append(out, Summary{Name: r.Name, Stats: r.Stats, Duration: r.Duration.String()})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleResult(c *gin.Context) {
	if r, ok := s.lookup(c); ok {
		c.JSON(http.StatusOK, r)
	}
}

// handlePolicy returns the policy as JSON, or the arrow grid with ?format=text
func (s *Server) handlePolicy(c *gin.Context) {
	r, ok := s.lookup(c)
	if !ok {
		return
	}
	if r.Outcome == nil || r.Outcome.Policy == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s has no policy", r.Name)})
		return
	}
	if c.Query("format") == "text" {
		var buf bytes.Buffer
		grid.NewRenderer(s.env, false).RenderPolicy(&buf, r.Outcome.Policy)
		c.String(http.StatusOK, buf.String())
		return
	}
	c.JSON(http.StatusOK, r.Outcome.Policy)
}

func (s *Server) handleValues(c *gin.Context) {
	r, ok := s.lookup(c)
	if !ok {
		return
	}
	if r.Outcome == nil || r.Outcome.Values == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s has no values", r.Name)})
		return
	}
	if c.Query("format") == "text" {
		var buf bytes.Buffer
		grid.NewRenderer(s.env, false).RenderValues(&buf, r.Outcome.Values)
		c.String(http.StatusOK, buf.String())
		return
	}
	c.JSON(http.StatusOK, gin.H{"values": r.Outcome.Values})
}
