package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sprint is a fixed-length iteration grouping product backlog items.
type Sprint struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	PBIs []PBI `gorm:"foreignKey:SprintID;constraint:OnDelete:CASCADE" json:"pbis,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Sprint) TableName() string { return "sprints" }

func (s *Sprint) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
