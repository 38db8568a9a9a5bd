package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

var ErrUnknownSectionType = errors.New("unknown section type")

// SectionPayload is the typed content of a section. Every variant reports the
// section type it belongs to.
type SectionPayload interface {
	SectionType() SectionType
}

// HeroContent is the payload of the hero banner.
type HeroContent struct {
	Headline        string `json:"headline"`
	Subheadline     string `json:"subheadline"`
	CTALabel        string `json:"ctaLabel"`
	CTAURL          string `json:"ctaUrl"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

// ServiceItem is one card of the services section.
type ServiceItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Link        string `json:"link,omitempty"`
}

// ServicesContent lists the service cards under an optional intro.
type ServicesContent struct {
	Intro string        `json:"intro"`
	Items []ServiceItem `json:"items"`
}

// AboutContent is the free text of the about section.
type AboutContent struct {
	Heading    string   `json:"heading"`
	Body       string   `json:"body"`
	ImageURL   string   `json:"imageUrl,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// TeamContent selects members to show; an empty MemberIDs shows every visible member.
type TeamContent struct {
	Intro     string `json:"intro"`
	MemberIDs []uint `json:"memberIds,omitempty"`
}

// TestimonialsContent caps how many testimonials are shown; zero shows all.
type TestimonialsContent struct {
	Intro string `json:"intro"`
	Limit int    `json:"limit,omitempty"`
}

// FAQContent optionally restricts the section to one category.
type FAQContent struct {
	Intro    string `json:"intro"`
	Category string `json:"category,omitempty"`
}

// ContactContent holds the agency coordinates and whether the form is shown.
type ContactContent struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	MapURL   string `json:"mapUrl,omitempty"`
	ShowForm bool   `json:"showForm"`
}

// TrustedClientsContent is the intro of the trusted-clients strip.
type TrustedClientsContent struct {
	Intro     string `json:"intro"`
	Grayscale bool   `json:"grayscale"`
}

// ExternalLinkContent labels an external-link section. The URL and access rules live on the Section.
type ExternalLinkContent struct {
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	OpenInNewTab bool   `json:"openInNewTab"`
}

// CustomContent is the only open variant: custom components receive free-form fields.
type CustomContent map[string]any

// SectionType binds each payload variant to its section type.
func (HeroContent) SectionType() SectionType           { return SectionHero }
func (ServicesContent) SectionType() SectionType       { return SectionServices }
func (AboutContent) SectionType() SectionType          { return SectionAbout }
func (TeamContent) SectionType() SectionType           { return SectionTeam }
func (TestimonialsContent) SectionType() SectionType   { return SectionTestimonials }
func (FAQContent) SectionType() SectionType            { return SectionFAQ }
func (ContactContent) SectionType() SectionType        { return SectionContact }
func (TrustedClientsContent) SectionType() SectionType { return SectionTrustedClients }
func (ExternalLinkContent) SectionType() SectionType   { return SectionExternalLink }
func (CustomContent) SectionType() SectionType         { return SectionCustom }

// NewSectionPayload returns the zero payload for a section type.
func NewSectionPayload(t SectionType) (SectionPayload, error) {
	switch t {
	case SectionHero:
		return &HeroContent{}, nil
	case SectionServices:
		return &ServicesContent{}, nil
	case SectionAbout:
		return &AboutContent{}, nil
	case SectionTeam:
		return &TeamContent{}, nil
	case SectionTestimonials:
		return &TestimonialsContent{}, nil
	case SectionFAQ:
		return &FAQContent{}, nil
	case SectionContact:
		return &ContactContent{}, nil
	case SectionTrustedClients:
		return &TrustedClientsContent{}, nil
	case SectionExternalLink:
		return &ExternalLinkContent{}, nil
	case SectionCustom:
		return &CustomContent{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSectionType, t)
}

// DecodeSectionPayload parses raw JSON into the variant matching t.
// Unknown fields are ignored; an empty input yields the zero payload.
func DecodeSectionPayload(t SectionType, raw []byte) (SectionPayload, error) {
	p, err := NewSectionPayload(t)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", t, err)
		}
	}
	return derefPayload(p), nil
}

// EncodeSectionPayload serializes a payload for the jsonb column.
func EncodeSectionPayload(p SectionPayload) (datatypes.JSON, error) {
	if p == nil {
		return datatypes.JSON("{}"), nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// Payloads are stored by value so callers can compare and copy them freely.
func derefPayload(p SectionPayload) SectionPayload {
	switch v := p.(type) {
	case *HeroContent:
		return *v
	case *ServicesContent:
		return *v
	case *AboutContent:
		return *v
	case *TeamContent:
		return *v
	case *TestimonialsContent:
		return *v
	case *FAQContent:
		return *v
	case *ContactContent:
		return *v
	case *TrustedClientsContent:
		return *v
	case *ExternalLinkContent:
		return *v
	case *CustomContent:
		if *v == nil {
			return CustomContent{}
		}
		return *v
	}
	return p
}

// SectionData is the persisted payload row of a section.
type SectionData struct {
	SectionID string         `gorm:"type:varchar(64);primaryKey"`
	Type      SectionType    `gorm:"type:varchar(32);not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

// TableName keeps the singular table name.
func (SectionData) TableName() string { return "section_data" }
