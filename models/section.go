package models

import "time"

// SectionType identifies a homepage block variant.
type SectionType string

const (
	SectionHero           SectionType = "hero"
	SectionServices       SectionType = "services"
	SectionAbout          SectionType = "about"
	SectionTeam           SectionType = "team"
	SectionTestimonials   SectionType = "testimonials"
	SectionFAQ            SectionType = "faq"
	SectionContact        SectionType = "contact"
	SectionCustom         SectionType = "custom"
	SectionTrustedClients SectionType = "trusted-clients"
	SectionExternalLink   SectionType = "external-link"
)

// SectionTypes lists every known variant in their default homepage order.
var SectionTypes = []SectionType{
	SectionHero, SectionServices, SectionAbout, SectionTeam, SectionTestimonials,
	SectionTrustedClients, SectionFAQ, SectionContact, SectionCustom, SectionExternalLink,
}

// Valid reports whether t is a known section type.
func (t SectionType) Valid() bool {
	for _, known := range SectionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsStandard reports whether the type is a built-in block that is only ever
// hidden, never removed.
func (t SectionType) IsStandard() bool {
	return t.Valid() && t != SectionCustom && t != SectionExternalLink
}

// Section is one ordered homepage block.
type Section struct {
	ID              string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	Type            SectionType `gorm:"type:varchar(32);not null;index" json:"type"`
	Title           string      `gorm:"type:varchar(200);not null" json:"title"`
	Visible         bool        `gorm:"not null;default:true" json:"visible"`
	Order           int         `gorm:"column:sort_order;not null;default:0" json:"order"`
	CustomComponent string      `gorm:"type:varchar(100)" json:"customComponent,omitempty"`
	ExternalURL     string      `gorm:"type:varchar(500)" json:"externalUrl,omitempty"`
	RequiresAuth    bool        `gorm:"not null;default:false" json:"requiresAuth,omitempty"`
	AllowedRoles    []string    `gorm:"type:jsonb;serializer:json" json:"allowedRoles,omitempty"`
	CreatedAt       time.Time   `json:"-"`
	UpdatedAt       time.Time   `json:"-"`
}

// SectionOptions carries the optional attributes accepted when adding a section.
type SectionOptions struct {
	CustomComponent string   `json:"customComponent"`
	ExternalURL     string   `json:"externalUrl"`
	RequiresAuth    bool     `json:"requiresAuth"`
	AllowedRoles    []string `json:"allowedRoles"`
}
