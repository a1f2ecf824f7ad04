package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbridge-ca/medbridge/internal/matching"
	"github.com/medbridge-ca/medbridge/internal/store"
)

// handleMatchDoctor ranks all job postings for the doctor's dashboard.
func (s *Server) handleMatchDoctor(c *gin.Context) {
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

	postings, err := s.store.ListJobPostings()
	if err != nil {
		s.logger.Error("list job postings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list job postings"})
		return
	}

	jobs := make([]*matching.JobPosting, 0, len(postings))
	for _, posting := range postings {
		job := posting.ToMatching()
		jobs = append(jobs, &job)
	}

	doctor := profile.ToMatching()
	matches := matching.MatchDoctorToJobs(&doctor, jobs)
	c.JSON(http.StatusOK, matches)
}

// handleMatchJob ranks all doctor profiles for a hospital's posting.
func (s *Server) handleMatchJob(c *gin.Context) {
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

	profiles, err := s.store.ListDoctorProfiles()
	if err != nil {
		s.logger.Error("list doctor profiles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list profiles"})
		return
	}

	doctors := make([]*matching.DoctorProfile, 0, len(profiles))
	for _, profile := range profiles {
		doctor := profile.ToMatching()
		doctors = append(doctors, &doctor)
	}

	job := posting.ToMatching()
	matches := matching.MatchJobToDoctors(&job, doctors)
	c.JSON(http.StatusOK, matches)
}
