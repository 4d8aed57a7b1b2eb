package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Story is a unit of work inside a PBI. Estimation fields are nullable
// because stories are often created before refinement; the prioritizer
// treats missing values as zero.
type Story struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title string    `gorm:"not null" json:"title"`
	PBIID uuid.UUID `gorm:"type:uuid;not null;index" json:"pbi_id"`

	RawDescription       string `json:"raw_description"`
	FormattedDescription string `json:"formatted_description"`
	AcceptanceCriteria   string `json:"acceptance_criteria"`

	Criticity            *Criticity `json:"criticity"`
	StoryPoints          *int       `json:"story_points"`
	BusinessValue        *int       `json:"business_value"`
	Complexity           *int       `json:"complexity"`
	StoryType            StoryType  `gorm:"not null;default:1" json:"story_type"`
	Continuation         int        `gorm:"not null;default:0" json:"continuation"`
	InternalDependencies int        `gorm:"not null;default:0" json:"internal_dependencies"`

	// Set by the prioritizer, never by clients.
	Priority *Priority `json:"priority"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Story) TableName() string { return "stories" }

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
