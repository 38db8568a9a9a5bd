package models

import (
	"errors"
	"net/mail"
	"strings"
)

// LeadStatus is the stage of a lead in the sales pipeline.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadWon       LeadStatus = "won"
	LeadLost      LeadStatus = "lost"
)

// LeadSource records how a lead reached us.
type LeadSource string

const (
	LeadSourceContactForm LeadSource = "contact-form"
	LeadSourceBooking     LeadSource = "booking"
	LeadSourceManual      LeadSource = "manual"
)

var leadTransitions = map[LeadStatus][]LeadStatus{
	LeadNew:       {LeadContacted, LeadLost},
	LeadContacted: {LeadQualified, LeadLost},
	LeadQualified: {LeadWon, LeadLost},
	LeadLost:      {LeadContacted},
}

// Valid reports whether s is a known pipeline stage.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadWon, LeadLost:
		return true
	}
	return false
}

// CanTransitionTo reports whether the pipeline allows moving from s to next.
func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	for _, allowed := range leadTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Lead is a prospect captured by the site or entered by hand.
type Lead struct {
	BaseModel
	Name    string     `gorm:"type:varchar(150);not null" json:"name"`
	Email   string     `gorm:"type:varchar(150);not null;index" json:"email"`
	Phone   string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Company string     `gorm:"type:varchar(150)" json:"company,omitempty"`
	Message string     `gorm:"type:text" json:"message,omitempty"`
	Source  LeadSource `gorm:"type:varchar(20);not null;default:'manual';index" json:"source"`
	Status  LeadStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	Notes   []LeadNote `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE;" json:"notes,omitempty"`
}

// LeadNote is a dated internal remark on a lead.
type LeadNote struct {
	BaseModel
	LeadID uint   `gorm:"not null;index" json:"leadId"`
	Body   string `gorm:"type:text;not null" json:"body"`
}

// Validate requires a name and a well-formed email.
func (l Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return errors.New("le nom est obligatoire")
	}
	if _, err := mail.ParseAddress(l.Email); err != nil {
		return errors.New("adresse e-mail invalide")
	}
	return nil
}
