package models

import (
	"errors"
	"strings"
	"time"
)

// CatalogEntry is implemented by every admin-managed content entity.
type CatalogEntry interface {
	Validate() error
}

// TeamMember is a person shown in the team section.
type TeamMember struct {
	BaseModel
	Name     string `gorm:"type:varchar(150);not null" json:"name"`
	Role     string `gorm:"type:varchar(150)" json:"role"`
	Bio      string `gorm:"type:text" json:"bio"`
	PhotoURL string `gorm:"type:varchar(500)" json:"photoUrl,omitempty"`
	LinkedIn string `gorm:"type:varchar(500)" json:"linkedin,omitempty"`
	Order    int    `gorm:"column:sort_order;default:0;index" json:"order"`
	Visible  bool   `gorm:"default:true;index" json:"visible"`
}

// Validate requires a name.
func (m TeamMember) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("le nom du membre est obligatoire")
	}
	return nil
}

// Testimonial is a client quote with a 1 to 5 rating.
type Testimonial struct {
	BaseModel
	Author  string `gorm:"type:varchar(150);not null" json:"author"`
	Company string `gorm:"type:varchar(150)" json:"company,omitempty"`
	Quote   string `gorm:"type:text;not null" json:"quote"`
	Rating  int    `gorm:"type:smallint;default:5" json:"rating"`
	Order   int    `gorm:"column:sort_order;default:0;index" json:"order"`
	Visible bool   `gorm:"default:true;index" json:"visible"`
}

// Validate requires an author and a quote and bounds the rating.
func (t Testimonial) Validate() error {
	if strings.TrimSpace(t.Author) == "" || strings.TrimSpace(t.Quote) == "" {
		return errors.New("l'auteur et le témoignage sont obligatoires")
	}
	if t.Rating < 1 || t.Rating > 5 {
		return errors.New("la note doit être comprise entre 1 et 5")
	}
	return nil
}

// FAQ is one question and answer, optionally grouped by category.
type FAQ struct {
	BaseModel
	Question string `gorm:"type:varchar(300);not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`
	Category string `gorm:"type:varchar(100);index" json:"category,omitempty"`
	Order    int    `gorm:"column:sort_order;default:0;index" json:"order"`
	Visible  bool   `gorm:"default:true;index" json:"visible"`
}

// TableName keeps gorm from naming the table "fa_qs".
func (FAQ) TableName() string { return "faqs" }

// Validate requires both the question and the answer.
func (f FAQ) Validate() error {
	if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
		return errors.New("la question et la réponse sont obligatoires")
	}
	return nil
}

// PricingPlan amounts are stored in cents.
type PricingPlan struct {
	BaseModel
	Name        string   `gorm:"type:varchar(100);not null" json:"name"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	PriceCents  int64    `gorm:"not null;default:0" json:"priceCents"`
	Currency    string   `gorm:"type:varchar(3);default:'EUR'" json:"currency"`
	Period      string   `gorm:"type:varchar(20);default:'month'" json:"period"`
	Features    []string `gorm:"type:jsonb;serializer:json" json:"features"`
	Highlighted bool     `gorm:"default:false" json:"highlighted"`
	Order       int      `gorm:"column:sort_order;default:0;index" json:"order"`
	Visible     bool     `gorm:"default:true;index" json:"visible"`
}

// Validate checks the name, a non-negative price and a known period.
func (p PricingPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("le nom de l'offre est obligatoire")
	}
	if p.PriceCents < 0 {
		return errors.New("le prix ne peut pas être négatif")
	}
	switch p.Period {
	case "", "once", "month", "year":
	default:
		return errors.New("la période doit être once, month ou year")
	}
	return nil
}

// TrustedClient is a client logo for the trusted-clients section.
type TrustedClient struct {
	BaseModel
	Name    string `gorm:"type:varchar(150);not null" json:"name"`
	LogoURL string `gorm:"type:varchar(500);not null" json:"logoUrl"`
	Website string `gorm:"type:varchar(500)" json:"website,omitempty"`
	Order   int    `gorm:"column:sort_order;default:0;index" json:"order"`
	Visible bool   `gorm:"default:true;index" json:"visible"`
}

// Validate requires a name and a logo URL.
func (c TrustedClient) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.LogoURL) == "" {
		return errors.New("le nom et le logo du client sont obligatoires")
	}
	return nil
}

// Job is a career opening. Only published jobs accept applications.
type Job struct {
	BaseModel
	Title        string `gorm:"type:varchar(200);not null" json:"title"`
	Slug         string `gorm:"type:varchar(220);uniqueIndex;not null" json:"slug"`
	Location     string `gorm:"type:varchar(150)" json:"location"`
	ContractType string `gorm:"type:varchar(50)" json:"contractType"`
	Description  string `gorm:"type:text" json:"description"`
	Published    bool   `gorm:"default:false;index" json:"published"`
}

// Validate requires a title.
func (j Job) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return errors.New("l'intitulé du poste est obligatoire")
	}
	return nil
}

// BlogPost bodies are markdown; HTML is rendered on read.
type BlogPost struct {
	BaseModel
	Title       string     `gorm:"type:varchar(250);not null" json:"title"`
	Slug        string     `gorm:"type:varchar(270);uniqueIndex;not null" json:"slug"`
	Excerpt     string     `gorm:"type:text" json:"excerpt"`
	Body        string     `gorm:"type:text" json:"body"`
	CoverURL    string     `gorm:"type:varchar(500)" json:"coverUrl,omitempty"`
	Author      string     `gorm:"type:varchar(150)" json:"author,omitempty"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `gorm:"type:timestamptz;index" json:"publishedAt,omitempty"`
}

// Validate requires a title.
func (p BlogPost) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("le titre de l'article est obligatoire")
	}
	return nil
}
