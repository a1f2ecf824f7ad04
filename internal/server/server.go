// Package server exposes the credential pathway and job matching engines
// over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbridge-ca/medbridge/internal/pathway"
	"github.com/medbridge-ca/medbridge/internal/store"
)

// Persistence is the slice of the store the handlers need.
type Persistence interface {
	UpsertUserByEmail(email, externalID, role string) (*store.User, error)
	SaveDoctorProfile(profile *store.DoctorProfile) error
	GetDoctorProfile(id uuid.UUID) (*store.DoctorProfile, error)
	ListDoctorProfiles() ([]store.DoctorProfile, error)
	CreateJobPosting(posting *store.JobPosting) error
	GetJobPosting(id uuid.UUID) (*store.JobPosting, error)
	ListJobPostings() ([]store.JobPosting, error)
}

// CredentialAnalyzer extracts a credential profile from resume text. Nil when
// AI analysis is disabled.
type CredentialAnalyzer interface {
	Analyze(ctx context.Context, resumeText string) (*pathway.Applicant, error)
}

type Server struct {
	logger        *zap.Logger
	store         Persistence
	engine        *pathway.Engine
	analyzer      CredentialAnalyzer
	webhookSecret string
	uploadDir     string
}

type Options struct {
	Logger        *zap.Logger
	Store         Persistence
	Analyzer      CredentialAnalyzer
	WebhookSecret string
	UploadDir     string
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	uploadDir := opts.UploadDir
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	return &Server{
		logger:        log,
		store:         opts.Store,
		engine:        pathway.New(log),
		analyzer:      opts.Analyzer,
		webhookSecret: opts.WebhookSecret,
		uploadDir:     uploadDir,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.POST("/webhook/identity", s.handleIdentityWebhook)

	api := r.Group("/api/v1")
	api.POST("/evaluate", s.handleEvaluate)
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/profile/doctor", s.handleSaveDoctorProfile)
	api.GET("/profile/doctor/:id", s.handleGetDoctorProfile)
	api.GET("/profile/doctor", s.handleListDoctorProfiles)
	api.POST("/jobs", s.handleCreateJobPosting)
	api.GET("/jobs", s.handleListJobPostings)
	api.GET("/jobs/:id", s.handleGetJobPosting)
	api.GET("/match/doctor/:id", s.handleMatchDoctor)
	api.GET("/match/job/:id", s.handleMatchJob)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
