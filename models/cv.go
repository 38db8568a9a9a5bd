package models

import (
	"errors"
	"net/mail"
	"strings"
)

// CVStatus tracks a candidate through review.
type CVStatus string

const (
	CVReceived    CVStatus = "received"
	CVShortlisted CVStatus = "shortlisted"
	CVRejected    CVStatus = "rejected"
	CVHired       CVStatus = "hired"
)

// Valid reports whether s is a known review state.
func (s CVStatus) Valid() bool {
	switch s {
	case CVReceived, CVShortlisted, CVRejected, CVHired:
		return true
	}
	return false
}

// CV is a candidate application kept in the CV library.
type CV struct {
	BaseModel
	CandidateName string   `gorm:"type:varchar(150);not null" json:"candidateName"`
	Email         string   `gorm:"type:varchar(150);not null;index" json:"email"`
	Phone         string   `gorm:"type:varchar(30)" json:"phone,omitempty"`
	JobID         *uint    `gorm:"index" json:"jobId,omitempty"`
	Job           *Job     `gorm:"foreignKey:JobID;constraint:OnDelete:SET NULL;" json:"job,omitempty"`
	Headline      string   `gorm:"type:varchar(200)" json:"headline,omitempty"`
	Skills        []string `gorm:"type:jsonb;serializer:json" json:"skills"`
	ResumeURL     string   `gorm:"type:varchar(500)" json:"resumeUrl,omitempty"`
	CoverLetter   string   `gorm:"type:text" json:"coverLetter,omitempty"`
	Status        CVStatus `gorm:"type:varchar(20);not null;default:'received';index" json:"status"`
	Notes         string   `gorm:"type:text" json:"notes,omitempty"`
}

// TableName keeps gorm from naming the table "c_vs".
func (CV) TableName() string { return "cvs" }

// Validate requires a candidate name and a well-formed email.
func (c CV) Validate() error {
	if strings.TrimSpace(c.CandidateName) == "" {
		return errors.New("le nom du candidat est obligatoire")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return errors.New("adresse e-mail invalide")
	}
	return nil
}
