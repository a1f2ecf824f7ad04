package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbridge-ca/medbridge/internal/store"
)

func (s *Server) handleCreateJobPosting(c *gin.Context) {
	var posting store.JobPosting
	if err := c.ShouldBindJSON(&posting); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job posting payload"})
		return
	}

	if strings.TrimSpace(posting.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	if err := s.store.CreateJobPosting(&posting); err != nil {
		s.logger.Error("create job posting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job posting"})
		return
	}

	c.JSON(http.StatusCreated, posting)
}

func (s *Server) handleListJobPostings(c *gin.Context) {
	postings, err := s.store.ListJobPostings()
	if err != nil {
		s.logger.Error("list job postings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list job postings"})
		return
	}

	c.JSON(http.StatusOK, postings)
}

func (s *Server) handleGetJobPosting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job posting id"})
		return
	}

	posting, err := s.store.GetJobPosting(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "job posting not found"})
		return
	}
	if err != nil {
		s.logger.Error("get job posting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job posting"})
		return
	}

	c.JSON(http.StatusOK, posting)
}
