package types

import (
	"time"

	"github.com/sprintforge/backend/internal/models"
)

// CreateSprintRequest creates a sprint.
type CreateSprintRequest struct {
	Name      string     `json:"name" validate:"required,max=200"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// UpdateSprintRequest partially updates a sprint. Nil fields are untouched.
type UpdateSprintRequest struct {
	Name      *string    `json:"name" validate:"omitempty,max=200"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// CreatePBIRequest creates a product backlog item.
type CreatePBIRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description"`
	SprintID    *string `json:"sprint_id" validate:"omitempty,uuid4"`
}

// UpdatePBIRequest partially updates a PBI.
type UpdatePBIRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	SprintID    *string `json:"sprint_id" validate:"omitempty,uuid4"`
}

// CreateStoryRequest creates a story under a PBI.
type CreateStoryRequest struct {
	Title                string            `json:"title" validate:"required,max=200"`
	RawDescription       string            `json:"raw_description"`
	Criticity            *models.Criticity `json:"criticity" validate:"omitempty,min=1,max=5"`
	StoryPoints          *int              `json:"story_points" validate:"omitempty,min=0"`
	BusinessValue        *int              `json:"business_value" validate:"omitempty,min=0"`
	Complexity           *int              `json:"complexity" validate:"omitempty,min=0"`
	StoryType            *models.StoryType `json:"story_type" validate:"omitempty,min=1,max=3"`
	Continuation         *int              `json:"continuation" validate:"omitempty,min=0"`
	InternalDependencies *int              `json:"internal_dependencies" validate:"omitempty,min=0"`
}

// UpdateStoryRequest partially updates a story. The inferred priority is
// deliberately not part of the request surface.
type UpdateStoryRequest struct {
	Title                *string           `json:"title" validate:"omitempty,max=200"`
	RawDescription       *string           `json:"raw_description"`
	Criticity            *models.Criticity `json:"criticity" validate:"omitempty,min=1,max=5"`
	StoryPoints          *int              `json:"story_points" validate:"omitempty,min=0"`
	BusinessValue        *int              `json:"business_value" validate:"omitempty,min=0"`
	Complexity           *int              `json:"complexity" validate:"omitempty,min=0"`
	StoryType            *models.StoryType `json:"story_type" validate:"omitempty,min=1,max=3"`
	Continuation         *int              `json:"continuation" validate:"omitempty,min=0"`
	InternalDependencies *int              `json:"internal_dependencies" validate:"omitempty,min=0"`
}

// PredictPriorityRequest carries the raw features of one story.
type PredictPriorityRequest struct {
	StoryPoints          int    `json:"story_points"`
	BusinessValue        int    `json:"business_value"`
	Criticity            int    `json:"criticity"`
	InternalDependencies int    `json:"internal_dependencies"`
	Continuation         int    `json:"continuation"`
	StoryType            string `json:"story_type" validate:"required"`
}
