// Package api exposes the insight engine over HTTP. The wrapper is thin by
// design: request shaping and transport concerns live here, all evaluation
// semantics live in internal/service.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/patient-insight-engine/internal/domain"
	"github.com/patient-insight-engine/internal/service"
)

// Server represents the HTTP server
type Server struct {
	logger   *logrus.Logger
	cfg      *domain.ServerConfig
	insights *service.InsightService
	router   *gin.Engine
	server   *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(logger *logrus.Logger, cfg *domain.Config, insights *service.InsightService) *Server {
	if strings.ToLower(cfg.Logging.Level) == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(SecurityHeaders())
	router.Use(CorrelationID())
	router.Use(RequestLogger(logger))
	router.Use(RateLimit(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst))

	s := &Server{
		logger:   logger,
		cfg:      &cfg.Server,
		insights: insights,
		router:   router,
	}
	s.setupRoutes()
	return s
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler { return s.router }

// Start starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.WithField("addr", addr).Info("HTTP server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/insights", s.handleInsights)
		v1.POST("/biomarkers/evaluate", s.handleBiomarkerEvaluation)
		v1.POST("/focus-areas/score", s.handleFocusAreaScoring)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"rulesets":  s.insights.Scoring().RulesetCount(),
	})
}
