package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PBI is a product backlog item. It may be planned into a sprint or
// remain in the backlog with a nil SprintID.
type PBI struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	SprintID    *uuid.UUID `gorm:"type:uuid;index" json:"sprint_id"`

	Stories []Story `gorm:"foreignKey:PBIID;constraint:OnDelete:CASCADE" json:"stories,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PBI) TableName() string { return "pbis" }

func (p *PBI) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
