// Package store persists users, doctor profiles, and job postings in
// PostgreSQL via GORM.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound reports a lookup for a record that does not exist.
var ErrNotFound = errors.New("record not found")

type Store struct {
	db *gorm.DB
}

// Connect opens the database and returns a Store around it.
func Connect(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database url is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &Store{db: db}, nil
}

// New wraps an existing gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the schema for all models.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&User{}, &DoctorProfile{}, &JobPosting{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// UpsertUserByEmail creates the user on first sight and refreshes the
// external id and role on subsequent webhook deliveries.
func (s *Store) UpsertUserByEmail(email, externalID, role string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	var user User
	err := s.db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = User{
			ID:         uuid.New(),
			ExternalID: externalID,
			Email:      email,
			Role:       role,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}

	user.ExternalID = externalID
	if role != "" {
		user.Role = role
	}
	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

// SaveDoctorProfile inserts the profile when its ID is unset and updates it
// otherwise.
func (s *Store) SaveDoctorProfile(profile *DoctorProfile) error {
	if profile == nil {
		return errors.New("profile is required")
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
		if err := s.db.Create(profile).Error; err != nil {
			return fmt.Errorf("create doctor profile: %w", err)
		}
		return nil
	}
	if err := s.db.Save(profile).Error; err != nil {
		return fmt.Errorf("update doctor profile: %w", err)
	}
	return nil
}

func (s *Store) GetDoctorProfile(id uuid.UUID) (*DoctorProfile, error) {
	var profile DoctorProfile
	err := s.db.Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find doctor profile: %w", err)
	}
	return &profile, nil
}

func (s *Store) ListDoctorProfiles() ([]DoctorProfile, error) {
	var profiles []DoctorProfile
	if err := s.db.Order("created_at").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("list doctor profiles: %w", err)
	}
	return profiles, nil
}

func (s *Store) CreateJobPosting(posting *JobPosting) error {
	if posting == nil {
		return errors.New("posting is required")
	}
	if posting.ID == uuid.Nil {
		posting.ID = uuid.New()
	}
	if err := s.db.Create(posting).Error; err != nil {
		return fmt.Errorf("create job posting: %w", err)
	}
	return nil
}

func (s *Store) GetJobPosting(id uuid.UUID) (*JobPosting, error) {
	var posting JobPosting
	err := s.db.Where("id = ?", id).First(&posting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job posting: %w", err)
	}
	return &posting, nil
}

func (s *Store) ListJobPostings() ([]JobPosting, error) {
	var postings []JobPosting
	if err := s.db.Order("created_at").Find(&postings).Error; err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	return postings, nil
}
