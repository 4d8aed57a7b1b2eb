package types

import (
	"github.com/google/uuid"
	"github.com/sprintforge/backend/internal/services"
)

// PredictPriorityResponse carries a single inferred priority label.
type PredictPriorityResponse struct {
	Prioridad string `json:"prioridad"`
}

// PrioritizeSprintResponse lists stories from highest to lowest priority.
type PrioritizeSprintResponse struct {
	OrdenadasPorPrioridad []services.RankedStory `json:"ordenadas_por_prioridad"`
}

// SprintGoalResponse carries a generated sprint goal.
type SprintGoalResponse struct {
	SprintID uuid.UUID `json:"sprint_id"`
	Goal     string    `json:"goal"`
}

// StoryRefinementResponse carries a refined story description.
type StoryRefinementResponse struct {
	ID                   uuid.UUID `json:"id"`
	FormattedDescription string    `json:"formatted_description"`
	AcceptanceCriteria   []string  `json:"acceptance_criteria"`
}
