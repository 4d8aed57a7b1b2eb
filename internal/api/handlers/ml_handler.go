package handlers

import (
	"net/http"
	"strings"

	"github.com/sprintforge/backend/internal/api/types"
	"github.com/sprintforge/backend/internal/ml"
	"github.com/sprintforge/backend/internal/services"
	apperrors "github.com/sprintforge/backend/pkg/errors"
)

// MLHandler serves priority inference and text generation.
type MLHandler struct {
	priorities services.PriorityService
	ai         services.AIService
	validate   Validator
}

func NewMLHandler(priorities services.PriorityService, ai services.AIService, validate Validator) *MLHandler {
	return &MLHandler{priorities: priorities, ai: ai, validate: validate}
}

// PredictPriority infers the priority label for one set of story features.
func (h *MLHandler) PredictPriority(w http.ResponseWriter, r *http.Request) {
	var req types.PredictPriorityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeInvalid, "invalid prediction payload"))
		return
	}

	p, err := h.priorities.PredictPriority(r.Context(), ml.Features{
		StoryPoints:          req.StoryPoints,
		BusinessValue:        req.BusinessValue,
		Criticity:            req.Criticity,
		InternalDependencies: req.InternalDependencies,
		Continuation:         req.Continuation,
		StoryType:            req.StoryType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.PredictPriorityResponse{Prioridad: p.Label})
}

// PrioritizeSprint infers and persists priorities for every story in a sprint.
func (h *MLHandler) PrioritizeSprint(w http.ResponseWriter, r *http.Request) {
	sprintID, err := pathUUID(r, "sprint_id")
	if err != nil {
		writeError(w, err)
		return
	}
	ranked, err := h.priorities.PrioritizeSprint(r.Context(), sprintID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.PrioritizeSprintResponse{OrdenadasPorPrioridad: ranked})
}

// SprintGoal generates a goal statement from the sprint's stories.
func (h *MLHandler) SprintGoal(w http.ResponseWriter, r *http.Request) {
	sprintID, err := pathUUID(r, "sprint_id")
	if err != nil {
		writeError(w, err)
		return
	}
	goal, err := h.ai.GenerateSprintGoal(r.Context(), sprintID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.SprintGoalResponse{SprintID: sprintID, Goal: goal})
}

// RefineStory rewrites a story's raw idea into a formatted description
// with acceptance criteria.
func (h *MLHandler) RefineStory(w http.ResponseWriter, r *http.Request) {
	storyID, err := pathUUID(r, "story_id")
	if err != nil {
		writeError(w, err)
		return
	}
	story, err := h.ai.GenerateDescriptionAndCriteria(r.Context(), storyID)
	if err != nil {
		writeError(w, err)
		return
	}

	var criteria []string
	if story.AcceptanceCriteria != "" {
		criteria = strings.Split(story.AcceptanceCriteria, "\n")
	}
	writeJSON(w, http.StatusOK, types.StoryRefinementResponse{
		ID:                   story.ID,
		FormattedDescription: story.FormattedDescription,
		AcceptanceCriteria:   criteria,
	})
}
