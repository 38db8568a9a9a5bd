package models

import (
	"errors"
	"strings"
	"time"
)

// AppointmentType is a bookable service with a fixed duration.
type AppointmentType struct {
	BaseModel
	Name            string   `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Description     string   `gorm:"type:text" json:"description"`
	DurationMinutes int      `gorm:"type:integer;not null" json:"duration"`
	Price           *float64 `gorm:"type:numeric(12,2)" json:"price,omitempty"`
	Currency        string   `gorm:"type:varchar(3);default:'EUR'" json:"currency"`
	Color           string   `gorm:"type:varchar(7)" json:"color,omitempty"`
	IsActive        bool     `gorm:"default:true;index" json:"isActive"`
}

// Duration converts DurationMinutes to a time.Duration.
func (t AppointmentType) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

// Validate checks the fields an admin can edit.
func (t AppointmentType) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("le nom du type de rendez-vous est obligatoire")
	}
	if t.DurationMinutes <= 0 {
		return errors.New("la durée doit être un nombre de minutes positif")
	}
	if t.Price != nil && *t.Price < 0 {
		return errors.New("le prix ne peut pas être négatif")
	}
	if t.Color != "" && (len(t.Color) != 7 || t.Color[0] != '#') {
		return errors.New("la couleur doit être au format #RRGGBB")
	}
	return nil
}
