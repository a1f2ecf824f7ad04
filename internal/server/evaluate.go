package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbridge-ca/medbridge/internal/extraction"
	"github.com/medbridge-ca/medbridge/internal/pathway"
)

func (s *Server) handleEvaluate(c *gin.Context) {
	var applicant pathway.Applicant
	if err := c.ShouldBindJSON(&applicant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid applicant payload"})
		return
	}

	report, err := s.engine.Evaluate(applicant)
	if err != nil {
		s.respondEvaluateError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// handleAnalyze runs the full resume pipeline: PDF text extraction, Gemini
// credential extraction, then the pathway evaluation.
func (s *Server) handleAnalyze(c *gin.Context) {
	if s.analyzer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "resume analysis is disabled"})
		return
	}

	text, status, err := s.resumeTextFromRequest(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	applicant, err := s.analyzer.Analyze(c.Request.Context(), text)
	if err != nil {
		s.logger.Error("resume analysis failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "resume analysis failed"})
		return
	}

	report, err := s.engine.Evaluate(*applicant)
	if err != nil {
		s.respondEvaluateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applicant": applicant,
		"report":    report,
	})
}

func (s *Server) respondEvaluateError(c *gin.Context, err error) {
	if errors.Is(err, pathway.ErrUnsupportedCountry) || errors.Is(err, pathway.ErrUnknownRole) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	s.logger.Error("evaluation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
}

// resumeTextFromRequest saves the uploaded PDF to a temp path under the
// upload dir and extracts its text. The file is removed after extraction.
func (s *Server) resumeTextFromRequest(c *gin.Context) (string, int, error) {
	file, err := c.FormFile("resume")
	if err != nil {
		return "", http.StatusBadRequest, errors.New("resume file is required")
	}

	if ext := filepath.Ext(file.Filename); ext != ".pdf" {
		return "", http.StatusBadRequest, errors.New("only pdf resumes are supported")
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", http.StatusInternalServerError, errors.New("failed to store upload")
	}

	path := filepath.Join(s.uploadDir, uuid.New().String()+".pdf")
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", http.StatusInternalServerError, errors.New("failed to store upload")
	}
	defer os.Remove(path)

	text, err := extraction.ExtractText(path)
	if err != nil {
		s.logger.Warn("pdf text extraction failed", zap.Error(err))
		return "", http.StatusBadRequest, errors.New("could not extract text from pdf")
	}

	return text, http.StatusOK, nil
}
