// Package server exposes the recruiting-feedback workflows over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/farewelly/farewelly/internal/analysis"
	"github.com/farewelly/farewelly/internal/heygen"
	"github.com/farewelly/farewelly/internal/hrflow"
	"github.com/farewelly/farewelly/internal/video"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Lister supplies the passthrough listing endpoints.
type Lister interface {
	ListJobs() ([]hrflow.JobSummary, error)
	ListProfiles() ([]hrflow.ProfileSummary, error)
}

// Analyzer runs the candidate-against-job workflow.
type Analyzer interface {
	Analyze(ctx context.Context, profileKey, jobKey string, roastMode bool) (*analysis.Result, error)
}

// AvatarLister exposes the browsable avatar catalog.
type AvatarLister interface {
	ListAvatars(ctx context.Context) ([]heygen.Avatar, error)
}

type Server struct {
	lister   Lister
	analyzer Analyzer
	tracker  *video.Tracker
	avatars  AvatarLister
	logger   *zap.Logger
}

func New(lister Lister, analyzer Analyzer, tracker *video.Tracker, avatars AvatarLister, logger *zap.Logger) *Server {
	return &Server{
		lister:   lister,
		analyzer: analyzer,
		tracker:  tracker,
		avatars:  avatars,
		logger:   logger,
	}
}

// Router builds the gin engine with all API routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/jobs", s.listJobs)
		api.GET("/profiles", s.listProfiles)
		api.POST("/analyze", s.analyze)
		api.POST("/generate-video", s.generateVideo)
		api.GET("/video-status/:job_id", s.videoStatus)
		api.GET("/avatars", s.listAvatars)
	}

	return router
}

// Run serves the API until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("serving api", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
