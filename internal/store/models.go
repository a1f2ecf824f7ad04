package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medbridge-ca/medbridge/internal/matching"
)

// User is an account provisioned through the identity provider webhook.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"type:varchar(255);index" json:"externalId"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Role       string    `gorm:"type:varchar(32)" json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DoctorProfile holds the credential profile a doctor fills in, plus fields
// backfilled from resume extraction.
type DoctorProfile struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	FirstName             string    `gorm:"type:varchar(255)" json:"firstName"`
	LastName              string    `gorm:"type:varchar(255)" json:"lastName"`
	CountryOfOrigin       string    `gorm:"type:varchar(255)" json:"countryOfOrigin"`
	Credentials           string    `gorm:"type:text" json:"credentials"`
	TranslatedCredentials string    `gorm:"type:text" json:"translatedCredentials"`
	YearsExperience       int       `json:"yearsExperience"`
	Location              string    `gorm:"type:varchar(255)" json:"location"`
	ResumeURL             string    `gorm:"type:varchar(512)" json:"resumeUrl"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// JobPosting is a position a hospital advertises to internationally trained
// doctors.
type JobPosting struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HospitalID   uuid.UUID `gorm:"type:uuid;index" json:"hospitalId"`
	Title        string    `gorm:"type:varchar(255)" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Requirements string    `gorm:"type:text" json:"requirements"`
	Location     string    `gorm:"type:varchar(255)" json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToMatching converts the stored profile into the matching engine's view.
func (p DoctorProfile) ToMatching() matching.DoctorProfile {
	return matching.DoctorProfile{
		ID:                    p.ID.String(),
		FullName:              strings.TrimSpace(p.FirstName + " " + p.LastName),
		CountryOfOrigin:       p.CountryOfOrigin,
		Credentials:           p.Credentials,
		TranslatedCredentials: p.TranslatedCredentials,
		YearsExperience:       p.YearsExperience,
		Location:              p.Location,
	}
}

// ToMatching converts the stored posting into the matching engine's view.
func (j JobPosting) ToMatching() matching.JobPosting {
	return matching.JobPosting{
		ID:           j.ID.String(),
		HospitalID:   j.HospitalID.String(),
		Title:        j.Title,
		Description:  j.Description,
		Requirements: j.Requirements,
		Location:     j.Location,
		CreatedAt:    j.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    j.UpdatedAt.Format(time.RFC3339),
	}
}
