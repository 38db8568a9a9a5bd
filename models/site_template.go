package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// SiteTemplate is a named snapshot of the section configuration.
type SiteTemplate struct {
	BaseModel
	Name        string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Snapshot    datatypes.JSON `gorm:"type:jsonb;not null" json:"snapshot"`
}

// TemplateSnapshot is the JSON shape stored in SiteTemplate.Snapshot.
type TemplateSnapshot struct {
	Sections []Section                 `json:"sections"`
	Data     map[string]json.RawMessage `json:"data"`
}
