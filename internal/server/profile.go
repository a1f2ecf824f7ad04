package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbridge-ca/medbridge/internal/extraction"
	"github.com/medbridge-ca/medbridge/internal/store"
)

// handleSaveDoctorProfile accepts a multipart form with the profile fields
// and an optional PDF resume. When the resume is present its text is run
// through credential extraction to backfill the country of origin if the
// doctor left it blank.
func (s *Server) handleSaveDoctorProfile(c *gin.Context) {
	profile := store.DoctorProfile{
		FirstName:             strings.TrimSpace(c.PostForm("firstName")),
		LastName:              strings.TrimSpace(c.PostForm("lastName")),
		CountryOfOrigin:       strings.TrimSpace(c.PostForm("countryOfOrigin")),
		Credentials:           strings.TrimSpace(c.PostForm("credentials")),
		TranslatedCredentials: strings.TrimSpace(c.PostForm("translatedCredentials")),
		Location:              strings.TrimSpace(c.PostForm("location")),
	}

	if raw := c.PostForm("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
			return
		}
		profile.ID = id
	}

	if raw := c.PostForm("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		profile.UserID = userID
	}

	if raw := c.PostForm("yearsExperience"); raw != "" {
		years, err := strconv.Atoi(raw)
		if err != nil || years < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid years of experience"})
			return
		}
		profile.YearsExperience = years
	}

	if profile.FirstName == "" && profile.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a name is required"})
		return
	}

	if profile.TranslatedCredentials == "" {
		profile.TranslatedCredentials = profile.Credentials
	}

	if file, err := c.FormFile("resume"); err == nil {
		if filepath.Ext(file.Filename) != ".pdf" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only pdf resumes are supported"})
			return
		}
		if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store resume"})
			return
		}
		path := filepath.Join(s.uploadDir, uuid.New().String()+".pdf")
		if err := c.SaveUploadedFile(file, path); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store resume"})
			return
		}
		profile.ResumeURL = path

		s.backfillFromResume(c, &profile, path)
	}

	if err := s.store.SaveDoctorProfile(&profile); err != nil {
		s.logger.Error("save doctor profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// backfillFromResume fills missing profile fields from the resume. Failures
// are logged and ignored, the profile saves either way.
func (s *Server) backfillFromResume(c *gin.Context, profile *store.DoctorProfile, path string) {
	if s.analyzer == nil || profile.CountryOfOrigin != "" {
		return
	}

	text, err := extraction.ExtractText(path)
	if err != nil {
		s.logger.Warn("resume text extraction failed", zap.Error(err))
		return
	}

	applicant, err := s.analyzer.Analyze(c.Request.Context(), text)
	if err != nil {
		s.logger.Warn("resume credential extraction failed", zap.Error(err))
		return
	}

	profile.CountryOfOrigin = applicant.Country
}

func (s *Server) handleGetDoctorProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	profile, err := s.store.GetDoctorProfile(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		s.logger.Error("get doctor profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleListDoctorProfiles(c *gin.Context) {
	profiles, err := s.store.ListDoctorProfiles()
	if err != nil {
		s.logger.Error("list doctor profiles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list profiles"})
		return
	}

	c.JSON(http.StatusOK, profiles)
}
