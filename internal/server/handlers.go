package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/farewelly/farewelly/internal/analysis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type analyzeRequest struct {
	ProfileKey string `json:"profile_key" binding:"required"`
	JobKey     string `json:"job_key" binding:"required"`
	RoastMode  bool   `json:"roast_mode"`
}

type generateVideoRequest struct {
	EmailContent string `json:"email_content" binding:"required"`
	Language     string `json:"language"`
}

func (s *Server) listJobs(c *gin.Context) {
	jobs, err := s.lister.ListJobs()
	if err != nil {
		s.logger.Error("listing jobs failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (s *Server) listProfiles(c *gin.Context) {
	profiles, err := s.lister.ListProfiles()
	if err != nil {
		s.logger.Error("listing profiles failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.analyzer.Analyze(c.Request.Context(), req.ProfileKey, req.JobKey, req.RoastMode)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("analyze failed",
			zap.String("profile_key", req.ProfileKey),
			zap.String("job_key", req.JobKey),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) generateVideo(c *gin.Context) {
	var req generateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Language == "" {
		req.Language = "en"
	}

	// The render outlives the request on purpose; it is detached from the
	// request context so a client disconnect does not cancel it.
	jobID := s.tracker.Start(context.Background(), req.EmailContent, req.Language)

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": "pending"})
}

func (s *Server) videoStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	job, ok := s.tracker.Get(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	// The Job tags omit video_url and error until they are populated.
	c.JSON(http.StatusOK, job)
}

func (s *Server) listAvatars(c *gin.Context) {
	avatars, err := s.avatars.ListAvatars(c.Request.Context())
	if err != nil {
		s.logger.Error("listing avatars failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatars": avatars})
}
